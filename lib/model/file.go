package model

// File is one revision of one file, as seen in a commit or in the distinct files of a change set.
type File struct {
	// Name is relative to the repository root
	Name string
	// FullName is the path as named by the server, without the ",v" suffix
	FullName string
	Revision string
	// PrevRevision is empty when there is no earlier revision
	PrevRevision string
	Dead         bool
}

func NewFile(name, fullName, revision string) *File {
	return &File{
		Name:     name,
		FullName: fullName,
		Revision: revision,
	}
}

func (f *File) HasPrevRevision() bool {
	return f.PrevRevision != ""
}

func (f *File) Clone() *File {
	result := *f
	return &result
}
