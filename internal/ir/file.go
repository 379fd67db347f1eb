package ir

import "inkanalyzer/internal/syntax"

// File is the ink! IR of one Rust source file.
type File struct {
	tree             *syntax.Tree
	contracts        []*Contract
	traitDefinitions []*TraitDefinition
	chainExtensions  []*ChainExtension
	storageItems     []*StorageItem
	tests            []*Test
	e2eTests         []*E2ETest
}

// Parse parses src and builds its IR.
func Parse(src string) *File {
	return Build(syntax.Parse(src))
}

// Build collects the top-level ink! entities of a parsed file. Entities
// nested in a contract (e.g. a chain extension or a test module) are
// collected as well; anything nested in another entity is not.
func Build(tree *syntax.Tree) *File {
	f := &File{tree: tree}
	root := tree.Root()

	for _, n := range ClosestInkDescendants(root) {
		if c := NewContract(n); c != nil {
			f.contracts = append(f.contracts, c)
		}
	}

	isContract := func(n *syntax.Node) bool {
		return FindAttr(n, MacroAttr(MacroContract)) != nil
	}
	for _, n := range closestDescendants(root, isContract) {
		if td := NewTraitDefinition(n); td != nil {
			f.traitDefinitions = append(f.traitDefinitions, td)
		}
		if ce := NewChainExtension(n); ce != nil {
			f.chainExtensions = append(f.chainExtensions, ce)
		}
		if si := NewStorageItem(n); si != nil {
			f.storageItems = append(f.storageItems, si)
		}
		if t := NewTest(n); t != nil {
			f.tests = append(f.tests, t)
		}
		if t := NewE2ETest(n); t != nil {
			f.e2eTests = append(f.e2eTests, t)
		}
	}
	return f
}

func (f *File) Tree() *syntax.Tree                   { return f.tree }
func (f *File) Root() *syntax.Node                   { return f.tree.Root() }
func (f *File) Text() string                         { return f.tree.Text() }
func (f *File) Contracts() []*Contract               { return f.contracts }
func (f *File) TraitDefinitions() []*TraitDefinition { return f.traitDefinitions }
func (f *File) ChainExtensions() []*ChainExtension   { return f.chainExtensions }
func (f *File) StorageItems() []*StorageItem         { return f.storageItems }
func (f *File) Tests() []*Test                       { return f.tests }
func (f *File) E2ETests() []*E2ETest                 { return f.e2eTests }

// Entities returns the outermost entities of the file in source order.
func (f *File) Entities() []Entity {
	var out []Entity
	for _, n := range ClosestInkDescendants(f.Root()) {
		out = append(out, castEntities(n)...)
	}
	return out
}

// Children returns the entities directly nested in e. Constructors and
// messages of a contract are reported under their impl block.
func Children(e Entity) []Entity {
	var (
		out   []Entity
		impls = map[*syntax.Node]bool{}
	)
	if c, ok := e.(*Contract); ok {
		for _, im := range c.Impls() {
			impls[im.Node()] = true
		}
	}
	for _, n := range ClosestInkDescendants(e.Node()) {
		for _, child := range castEntities(n) {
			if cl, ok := child.(interface{ ParentImpl() *syntax.Node }); ok && impls[cl.ParentImpl()] {
				continue
			}
			out = append(out, child)
		}
	}
	if c, ok := e.(*Contract); ok {
		for _, im := range c.Impls() {
			if im.ImplAttr() == nil {
				out = append(out, im)
			}
		}
	}
	return out
}

// castEntities returns the entities a node with ink! attributes casts to.
// A node with several entity attributes yields one entity per attribute.
func castEntities(n *syntax.Node) []Entity {
	var out []Entity
	add := func(e Entity, ok bool) {
		if ok {
			out = append(out, e)
		}
	}
	c := NewContract(n)
	add(c, c != nil)
	td := NewTraitDefinition(n)
	add(td, td != nil)
	ce := NewChainExtension(n)
	add(ce, ce != nil)
	si := NewStorageItem(n)
	add(si, si != nil)
	t := NewTest(n)
	add(t, t != nil)
	e2e := NewE2ETest(n)
	add(e2e, e2e != nil)
	s := NewStorage(n)
	add(s, s != nil)
	ev := NewEvent(n)
	add(ev, ev != nil)
	tp := NewTopic(n)
	add(tp, tp != nil)
	ctor := NewConstructor(n)
	add(ctor, ctor != nil)
	msg := NewMessage(n)
	add(msg, msg != nil)
	ext := NewExtension(n)
	add(ext, ext != nil)
	if n.Kind() == syntax.KindImplItem {
		im := NewImpl(n)
		add(im, im != nil)
	}
	return out
}
