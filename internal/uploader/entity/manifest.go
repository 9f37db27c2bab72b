package entity

// UploadManifest is the content description handed to SteamCMD as an app build script.
type UploadManifest struct {
	AppID          string
	DepotID        string
	Description    string
	ContentRoot    string
	FileExclusions []string
}
