package utils

//FrameExtensions are the image files served as annotation frames
var FrameExtensions = []string{".jpg", ".jpeg", ".png"}

//VideoExtensions are the uploaded video containers listed to the client
var VideoExtensions = []string{".mp4", ".mov", ".avi", ".mkv"}

//CocoSuffix is appended to a video id to name its annotation dataset file
const CocoSuffix = "_coco_annotations.json"

//LabelSuffix is appended to a video id to name its label document in both tiers
const LabelSuffix = "_labelled.json"

//DirPerm is used for every data directory created at startup
const DirPerm = 0766
