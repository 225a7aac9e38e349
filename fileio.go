package evds

// Loader and Saver are the interfaces an external file-format collaborator
// implements to persist/restore object trees, variable trees, and named
// databases. Only the interface the core consumes is specified here; text
// and XML persistence themselves are out of scope.
type Loader interface {
	// LoadObjectTree reads a serialized object (and its descendants) and
	// attaches it under parent, owned by token.
	LoadObjectTree(sys *System, parent *Object, token Token, data []byte) (*Object, error)
	// LoadVariableTree reads a serialized variable (and its descendants).
	LoadVariableTree(data []byte) (*Variable, error)
	// LoadDatabase reads a named database and registers it with sys.
	LoadDatabase(sys *System, name string, data []byte) error
}

// Saver is the write-side counterpart to Loader.
type Saver interface {
	SaveObjectTree(obj *Object) ([]byte, error)
	SaveVariableTree(v *Variable) ([]byte, error)
	SaveDatabase(v *Variable) ([]byte, error)
}
