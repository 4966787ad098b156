package model

// BuildTarget describes one executable target in the generated project
// description. Target names are derived from test file base names; when two
// candidates share a base name the last one wins.
type BuildTarget struct {
	Name        string
	TestFile    Path
	Sources     []Path // extra sources linked into the target (stubs, objects)
	IncludeDirs []Path
}
