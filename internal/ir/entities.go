package ir

import (
	"strings"

	"inkanalyzer/internal/syntax"
)

// EntityKind enumerates the closed set of ink! entities.
type EntityKind int

const (
	EntityContract EntityKind = iota
	EntityTraitDefinition
	EntityChainExtension
	EntityStorageItem
	EntityImpl
	EntityConstructor
	EntityMessage
	EntityEvent
	EntityExtension
	EntityStorage
	EntityTopic
	EntityTest
	EntityE2ETest
)

var entityNames = map[EntityKind]string{
	EntityContract:        "contract",
	EntityTraitDefinition: "trait_definition",
	EntityChainExtension:  "chain_extension",
	EntityStorageItem:     "storage_item",
	EntityImpl:            "impl",
	EntityConstructor:     "constructor",
	EntityMessage:         "message",
	EntityEvent:           "event",
	EntityExtension:       "extension",
	EntityStorage:         "storage",
	EntityTopic:           "topic",
	EntityTest:            "test",
	EntityE2ETest:         "e2e_test",
}

func (k EntityKind) String() string {
	return entityNames[k]
}

// Entity is a typed view over one syntax node and the ink! attribute that
// makes it an entity.
type Entity interface {
	Kind() EntityKind
	Node() *syntax.Node
	Attr() *Attribute
}

type entity struct {
	kind EntityKind
	node *syntax.Node
	attr *Attribute
}

func (e *entity) Kind() EntityKind   { return e.kind }
func (e *entity) Node() *syntax.Node { return e.node }
func (e *entity) Attr() *Attribute   { return e.attr }

// Name returns the name of the annotated item, if any.
func (e *entity) Name() string {
	return e.node.Name()
}

// Range covers the annotated node including its attributes.
func (e *entity) Range() syntax.Range {
	return e.node.Range()
}

func newEntity(kind EntityKind, attr *Attribute) entity {
	return entity{kind: kind, node: attr.Target(), attr: attr}
}

// castAttr finds the attribute of the given kind on node, or nil.
func castAttr(node *syntax.Node, kind AttrKind) *Attribute {
	if node == nil {
		return nil
	}
	return FindAttr(node, kind)
}

func nodeOfKind(n *syntax.Node, kinds ...string) *syntax.Node {
	if n == nil {
		return nil
	}
	for _, k := range kinds {
		if n.Kind() == k {
			return n
		}
	}
	return nil
}

// Contract is an `#[ink::contract]` module.
type Contract struct {
	entity
	storage      []*Storage
	events       []*Event
	impls        []*Impl
	constructors []*Constructor
	messages     []*Message
}

func NewContract(node *syntax.Node) *Contract {
	attr := castAttr(node, MacroAttr(MacroContract))
	if attr == nil {
		return nil
	}
	c := &Contract{entity: newEntity(EntityContract, attr)}
	for _, n := range closestDescendants(node, isImplNode) {
		if s := NewStorage(n); s != nil {
			c.storage = append(c.storage, s)
		}
		if e := NewEvent(n); e != nil {
			c.events = append(c.events, e)
		}
		if ctor := NewConstructor(n); ctor != nil {
			c.constructors = append(c.constructors, ctor)
		}
		if msg := NewMessage(n); msg != nil {
			c.messages = append(c.messages, msg)
		}
	}
	c.impls = implDescendants(node)
	return c
}

// Module returns the annotated `mod` item, or nil for any other item kind.
func (c *Contract) Module() *syntax.Node {
	return nodeOfKind(c.node, syntax.KindModItem)
}

// ItemList returns the body of the contract module, or nil for `mod name;`.
func (c *Contract) ItemList() *syntax.Node {
	if m := c.Module(); m != nil {
		return m.Body()
	}
	return nil
}

// Storage returns the first storage definition, if any.
func (c *Contract) Storage() *Storage {
	if len(c.storage) == 0 {
		return nil
	}
	return c.storage[0]
}

// StorageDefinitions returns every storage definition, including excess ones.
func (c *Contract) StorageDefinitions() []*Storage { return c.storage }
func (c *Contract) Events() []*Event               { return c.events }
func (c *Contract) Impls() []*Impl                 { return c.impls }
func (c *Contract) Constructors() []*Constructor   { return c.constructors }
func (c *Contract) Messages() []*Message           { return c.messages }

// Storage is an `#[ink(storage)]` struct.
type Storage struct {
	entity
}

func NewStorage(node *syntax.Node) *Storage {
	attr := castAttr(node, ArgAttr(ArgStorage))
	if attr == nil {
		return nil
	}
	return &Storage{entity: newEntity(EntityStorage, attr)}
}

func (s *Storage) Struct() *syntax.Node {
	return nodeOfKind(s.node, syntax.KindStructItem)
}

// Event is an `#[ink(event)]` struct.
type Event struct {
	entity
	topics []*Topic
}

func NewEvent(node *syntax.Node) *Event {
	attr := castAttr(node, ArgAttr(ArgEvent))
	if attr == nil {
		return nil
	}
	e := &Event{entity: newEntity(EntityEvent, attr)}
	for _, n := range ClosestInkDescendants(node) {
		if t := NewTopic(n); t != nil {
			e.topics = append(e.topics, t)
		}
	}
	return e
}

func (e *Event) Struct() *syntax.Node {
	return nodeOfKind(e.node, syntax.KindStructItem)
}

func (e *Event) Topics() []*Topic { return e.topics }

// Anonymous reports whether the event carries the `anonymous` argument.
func (e *Event) Anonymous() bool {
	_, ok := FindArg(e.node, ArgAnonymous)
	return ok
}

// Topic is an `#[ink(topic)]` event field.
type Topic struct {
	entity
}

func NewTopic(node *syntax.Node) *Topic {
	attr := castAttr(node, ArgAttr(ArgTopic))
	if attr == nil {
		return nil
	}
	return &Topic{entity: newEntity(EntityTopic, attr)}
}

func (t *Topic) Field() *syntax.Node {
	return nodeOfKind(t.node, syntax.KindFieldDeclaration)
}

// callable is shared by constructors and messages.
type callable struct {
	entity
}

// Fn returns the annotated `fn` item, or nil for any other item kind.
func (c *callable) Fn() *syntax.Node {
	return nodeOfKind(c.node, syntax.KindFunctionItem, syntax.KindFunctionSignatureItem)
}

// ParentImpl returns the `impl` block the callable is defined in, if any.
func (c *callable) ParentImpl() *syntax.Node {
	list := c.node.Parent()
	if list == nil || list.Kind() != syntax.KindDeclarationList {
		return nil
	}
	return nodeOfKind(list.Parent(), syntax.KindImplItem)
}

// SelfParam returns the text of the `self` receiver, or "" when absent.
func (c *callable) SelfParam() string {
	fn := c.Fn()
	if fn == nil {
		return ""
	}
	params := fn.ChildByField("parameters")
	if params == nil {
		return ""
	}
	if self := params.FirstChildOfKind(syntax.KindSelfParameter); self != nil {
		return stripSpace(self.Text())
	}
	return ""
}

// ReturnType returns the declared return type, or nil.
func (c *callable) ReturnType() *syntax.Node {
	if fn := c.Fn(); fn != nil {
		return fn.ChildByField("return_type")
	}
	return nil
}

// Selector returns the `selector` argument, if any.
func (c *callable) Selector() (Arg, bool) {
	return FindArg(c.node, ArgSelector)
}

// Constructor is an `#[ink(constructor)]` fn.
type Constructor struct {
	callable
}

func NewConstructor(node *syntax.Node) *Constructor {
	attr := castAttr(node, ArgAttr(ArgConstructor))
	if attr == nil {
		return nil
	}
	return &Constructor{callable{newEntity(EntityConstructor, attr)}}
}

// Message is an `#[ink(message)]` fn.
type Message struct {
	callable
}

func NewMessage(node *syntax.Node) *Message {
	attr := castAttr(node, ArgAttr(ArgMessage))
	if attr == nil {
		return nil
	}
	return &Message{callable{newEntity(EntityMessage, attr)}}
}

// Impl is an ink! `impl` block: either annotated with `#[ink(impl)]` or
// containing at least one constructor or message.
type Impl struct {
	entity
	constructors []*Constructor
	messages     []*Message
}

// CanCastImpl reports whether node is an ink! impl block.
func CanCastImpl(node *syntax.Node) bool {
	if node == nil {
		return false
	}
	if FindAttr(node, ArgAttr(ArgImpl)) != nil {
		return true
	}
	if node.Kind() != syntax.KindImplItem {
		return false
	}
	for _, attr := range ClosestDescendantAttrs(node) {
		if attr.Kind == ArgAttr(ArgConstructor) || attr.Kind == ArgAttr(ArgMessage) {
			return true
		}
	}
	return false
}

func isImplNode(n *syntax.Node) bool {
	return n.Kind() == syntax.KindImplItem
}

func NewImpl(node *syntax.Node) *Impl {
	if !CanCastImpl(node) {
		return nil
	}
	im := &Impl{entity: entity{kind: EntityImpl, node: node, attr: FindAttr(node, ArgAttr(ArgImpl))}}
	for _, n := range ClosestInkDescendants(node) {
		if ctor := NewConstructor(n); ctor != nil {
			im.constructors = append(im.constructors, ctor)
		}
		if msg := NewMessage(n); msg != nil {
			im.messages = append(im.messages, msg)
		}
	}
	return im
}

// implDescendants returns the ink! impl blocks below node, looking through
// plain (un-annotated) impl blocks.
func implDescendants(node *syntax.Node) []*Impl {
	var out []*Impl
	node.Walk(func(n *syntax.Node) bool {
		if n.Kind() == syntax.KindAttributeItem || n.IsToken() {
			return false
		}
		if im := NewImpl(n); im != nil {
			out = append(out, im)
			return false
		}
		return !HasInkAttrs(n)
	})
	return out
}

func (im *Impl) ImplItem() *syntax.Node {
	return nodeOfKind(im.node, syntax.KindImplItem)
}

// ImplAttr returns the `#[ink(impl)]` attribute, if any.
func (im *Impl) ImplAttr() *Attribute {
	return im.attr
}

// Namespace returns the `namespace` argument, if any.
func (im *Impl) Namespace() (Arg, bool) {
	return FindArg(im.node, ArgNamespace)
}

// TraitPath returns the implemented trait path (e.g. `crate::MyTrait`), or
// "" for an inherent impl.
func (im *Impl) TraitPath() string {
	item := im.ImplItem()
	if item == nil {
		return ""
	}
	if tr := item.ChildByField("trait"); tr != nil {
		return stripGenerics(stripSpace(tr.Text()))
	}
	return ""
}

// SelfType returns the implementing type's name.
func (im *Impl) SelfType() string {
	item := im.ImplItem()
	if item == nil {
		return ""
	}
	if ty := item.ChildByField("type"); ty != nil {
		return stripGenerics(stripSpace(ty.Text()))
	}
	return ""
}

func (im *Impl) Constructors() []*Constructor { return im.constructors }
func (im *Impl) Messages() []*Message         { return im.messages }

// TraitDefinition resolves the trait definition implemented by this block.
func (im *Impl) TraitDefinition() *TraitDefinition {
	path := im.TraitPath()
	if path == "" {
		return nil
	}
	trait := ResolveItem(path, im.node, syntax.KindTraitItem)
	if trait == nil {
		return nil
	}
	return NewTraitDefinition(trait)
}

func stripGenerics(s string) string {
	if i := strings.IndexByte(s, '<'); i >= 0 {
		return s[:i]
	}
	return s
}

// TraitDefinition is an `#[ink::trait_definition]` trait.
type TraitDefinition struct {
	entity
	messages []*Message
}

func NewTraitDefinition(node *syntax.Node) *TraitDefinition {
	attr := castAttr(node, MacroAttr(MacroTraitDefinition))
	if attr == nil {
		return nil
	}
	td := &TraitDefinition{entity: newEntity(EntityTraitDefinition, attr)}
	for _, n := range ClosestInkDescendants(node) {
		if msg := NewMessage(n); msg != nil {
			td.messages = append(td.messages, msg)
		}
	}
	return td
}

func (td *TraitDefinition) Trait() *syntax.Node {
	return nodeOfKind(td.node, syntax.KindTraitItem)
}

func (td *TraitDefinition) Messages() []*Message { return td.messages }

// ChainExtension is an `#[ink::chain_extension]` trait.
type ChainExtension struct {
	entity
	extensions []*Extension
}

func NewChainExtension(node *syntax.Node) *ChainExtension {
	attr := castAttr(node, MacroAttr(MacroChainExtension))
	if attr == nil {
		return nil
	}
	ce := &ChainExtension{entity: newEntity(EntityChainExtension, attr)}
	for _, n := range ClosestInkDescendants(node) {
		if ext := NewExtension(n); ext != nil {
			ce.extensions = append(ce.extensions, ext)
		}
	}
	return ce
}

func (ce *ChainExtension) Trait() *syntax.Node {
	return nodeOfKind(ce.node, syntax.KindTraitItem)
}

func (ce *ChainExtension) Extensions() []*Extension { return ce.extensions }

// ErrorCode returns the `ErrorCode` associated type declaration, if any.
func (ce *ChainExtension) ErrorCode() *syntax.Node {
	tr := ce.Trait()
	if tr == nil || tr.Body() == nil {
		return nil
	}
	for _, c := range tr.Body().ChildrenOfKind(syntax.KindAssociatedType, syntax.KindTypeItem) {
		if c.Name() == "ErrorCode" {
			return c
		}
	}
	return nil
}

// Extension is an `#[ink(extension = N)]` fn.
type Extension struct {
	entity
}

func NewExtension(node *syntax.Node) *Extension {
	attr := castAttr(node, ArgAttr(ArgExtension))
	if attr == nil {
		return nil
	}
	return &Extension{entity: newEntity(EntityExtension, attr)}
}

func (e *Extension) Fn() *syntax.Node {
	return nodeOfKind(e.node, syntax.KindFunctionItem, syntax.KindFunctionSignatureItem)
}

// ID returns the extension id argument.
func (e *Extension) ID() (Arg, bool) {
	return FindArg(e.node, ArgExtension)
}

// StorageItem is an `#[ink::storage_item]` ADT.
type StorageItem struct {
	entity
}

func NewStorageItem(node *syntax.Node) *StorageItem {
	attr := castAttr(node, MacroAttr(MacroStorageItem))
	if attr == nil {
		return nil
	}
	return &StorageItem{entity: newEntity(EntityStorageItem, attr)}
}

// ADT returns the annotated enum, struct or union, or nil for anything else.
func (s *StorageItem) ADT() *syntax.Node {
	return nodeOfKind(s.node, syntax.KindEnumItem, syntax.KindStructItem, syntax.KindUnionItem)
}

// Test is an `#[ink::test]` fn.
type Test struct {
	entity
}

func NewTest(node *syntax.Node) *Test {
	attr := castAttr(node, MacroAttr(MacroTest))
	if attr == nil {
		return nil
	}
	return &Test{entity: newEntity(EntityTest, attr)}
}

func (t *Test) Fn() *syntax.Node {
	return nodeOfKind(t.node, syntax.KindFunctionItem)
}

// E2ETest is an `#[ink_e2e::test]` fn.
type E2ETest struct {
	entity
}

func NewE2ETest(node *syntax.Node) *E2ETest {
	attr := castAttr(node, MacroAttr(MacroE2ETest))
	if attr == nil {
		return nil
	}
	return &E2ETest{entity: newEntity(EntityE2ETest, attr)}
}

func (t *E2ETest) Fn() *syntax.Node {
	return nodeOfKind(t.node, syntax.KindFunctionItem)
}
