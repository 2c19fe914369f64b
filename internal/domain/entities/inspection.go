package entities

// ArchiveInspection is a shallow look inside a zip-format artifact
type ArchiveInspection struct {
	Path        string
	Entries     int
	HasManifest bool // META-INF/MANIFEST.MF present
}

// Empty reports whether the archive holds no entries
func (a ArchiveInspection) Empty() bool {
	return a.Entries == 0
}
