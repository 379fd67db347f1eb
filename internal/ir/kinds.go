package ir

import "strings"

// MacroKind is an ink! attribute macro (e.g. `#[ink::contract]`).
type MacroKind int

const (
	MacroChainExtension MacroKind = iota
	MacroContract
	MacroStorageItem
	MacroTest
	MacroTraitDefinition
	MacroE2ETest
	MacroUnknown
)

var macroNames = map[MacroKind]string{
	MacroChainExtension:  "chain_extension",
	MacroContract:        "contract",
	MacroStorageItem:     "storage_item",
	MacroTest:            "test",
	MacroTraitDefinition: "trait_definition",
	MacroE2ETest:         "e2e test",
}

func (k MacroKind) String() string {
	if name, ok := macroNames[k]; ok {
		return name
	}
	return "unknown"
}

// Path is the attribute path the macro is written with.
func (k MacroKind) Path() string {
	switch k {
	case MacroE2ETest:
		return "ink_e2e::test"
	case MacroUnknown:
		return ""
	}
	return "ink::" + k.String()
}

// MacroKindFromPath classifies an attribute path such as `ink::contract`.
// Paths outside the ink! namespaces report false.
func MacroKindFromPath(path string) (MacroKind, bool) {
	switch path {
	case "ink::chain_extension":
		return MacroChainExtension, true
	case "ink::contract":
		return MacroContract, true
	case "ink::storage_item":
		return MacroStorageItem, true
	case "ink::test":
		return MacroTest, true
	case "ink::trait_definition":
		return MacroTraitDefinition, true
	case "ink_e2e::test":
		return MacroE2ETest, true
	}
	if strings.HasPrefix(path, "ink::") || strings.HasPrefix(path, "ink_e2e::") {
		return MacroUnknown, true
	}
	return MacroUnknown, false
}

// ArgKind is an ink! attribute argument (e.g. `storage` in `#[ink(storage)]`).
type ArgKind int

const (
	ArgAdditionalContracts ArgKind = iota
	ArgAnonymous
	ArgConstructor
	ArgDefault
	ArgDerive
	ArgEnv
	ArgEnvironment
	ArgEvent
	ArgExtension
	ArgHandleStatus
	ArgImpl
	ArgKeepAttr
	ArgMessage
	ArgNamespace
	ArgPayable
	ArgSelector
	ArgStorage
	ArgTopic
	ArgUnknown
)

var argNames = map[ArgKind]string{
	ArgAdditionalContracts: "additional_contracts",
	ArgAnonymous:           "anonymous",
	ArgConstructor:         "constructor",
	ArgDefault:             "default",
	ArgDerive:              "derive",
	ArgEnv:                 "env",
	ArgEnvironment:         "environment",
	ArgEvent:               "event",
	ArgExtension:           "extension",
	ArgHandleStatus:        "handle_status",
	ArgImpl:                "impl",
	ArgKeepAttr:            "keep_attr",
	ArgMessage:             "message",
	ArgNamespace:           "namespace",
	ArgPayable:             "payable",
	ArgSelector:            "selector",
	ArgStorage:             "storage",
	ArgTopic:               "topic",
}

var argsByName = func() map[string]ArgKind {
	m := make(map[string]ArgKind, len(argNames))
	for k, name := range argNames {
		m[name] = k
	}
	return m
}()

func (k ArgKind) String() string {
	if name, ok := argNames[k]; ok {
		return name
	}
	return "unknown"
}

func ArgKindFromName(name string) ArgKind {
	if k, ok := argsByName[name]; ok {
		return k
	}
	return ArgUnknown
}

// AllArgKinds lists every known argument kind in declaration order.
func AllArgKinds() []ArgKind {
	out := make([]ArgKind, 0, int(ArgUnknown))
	for k := ArgAdditionalContracts; k < ArgUnknown; k++ {
		out = append(out, k)
	}
	return out
}

// Rank orders argument kinds for primary attribute resolution; lower wins.
// Entity arguments come first, then unambiguous complements, then arguments
// that are ambiguous standing alone, then plain modifiers.
func (k ArgKind) Rank() int {
	switch k {
	case ArgConstructor, ArgEvent, ArgExtension, ArgImpl, ArgMessage, ArgStorage, ArgTopic:
		return 0
	case ArgAnonymous, ArgHandleStatus, ArgEnv, ArgDerive, ArgAdditionalContracts, ArgEnvironment:
		return 1
	case ArgNamespace:
		return 2
	case ArgKeepAttr:
		return 3
	case ArgPayable, ArgDefault, ArgSelector:
		return 4
	}
	return 10
}

// ValueKind is the shape of the value an argument takes.
type ValueKind int

const (
	ValueNone ValueKind = iota
	ValueU32
	ValueU32OrWildcard
	ValueBool
	ValueIdentString
	ValueString
	ValuePath
)

func (v ValueKind) String() string {
	switch v {
	case ValueU32:
		return "u32"
	case ValueU32OrWildcard:
		return "u32 or `_`"
	case ValueBool:
		return "bool"
	case ValueIdentString:
		return "identifier string"
	case ValueString:
		return "string"
	case ValuePath:
		return "path"
	}
	return "none"
}

func (k ArgKind) ValueKind() ValueKind {
	switch k {
	case ArgExtension:
		return ValueU32
	case ArgSelector:
		return ValueU32OrWildcard
	case ArgHandleStatus, ArgDerive:
		return ValueBool
	case ArgNamespace:
		return ValueIdentString
	case ArgKeepAttr, ArgAdditionalContracts:
		return ValueString
	case ArgEnv, ArgEnvironment:
		return ValuePath
	}
	return ValueNone
}

// AttrKind is the kind of one attribute occurrence: either a macro or an
// argument. The zero value is not a valid kind.
type AttrKind struct {
	IsMacro bool
	Macro   MacroKind
	Arg     ArgKind
}

func MacroAttr(k MacroKind) AttrKind {
	return AttrKind{IsMacro: true, Macro: k, Arg: ArgUnknown}
}

func ArgAttr(k ArgKind) AttrKind {
	return AttrKind{Macro: MacroUnknown, Arg: k}
}

func (k AttrKind) IsUnknown() bool {
	if k.IsMacro {
		return k.Macro == MacroUnknown
	}
	return k.Arg == ArgUnknown
}

func (k AttrKind) String() string {
	if k.IsMacro {
		return k.Macro.String()
	}
	return k.Arg.String()
}

// Syntax renders the kind the way it is written in source.
func (k AttrKind) Syntax() string {
	if k.IsMacro {
		return "#[" + k.Macro.Path() + "]"
	}
	return "#[ink(" + k.Arg.String() + ")]"
}
