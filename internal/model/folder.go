package model

// NewFolderParams holds parameters for creating a new folder node.
type NewFolderParams struct {
	Title     string
	IsOpen    bool
	IsToolbar bool
}

// NewFolder returns the payload for a folder node.
func NewFolder(params NewFolderParams) NodeData {
	return NodeData{
		Kind:      KindFolder,
		Title:     params.Title,
		IsOpen:    params.IsOpen,
		IsToolbar: params.IsToolbar,
	}
}
