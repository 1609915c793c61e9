package ast

type (
	Node interface {
	}

	// Base is a byte span [Pos, End) of the source text.
	Base struct {
		Pos int
		End int
	}

	LineBreak struct {
		Base
	}

	Blank struct {
		Base `tlog:",embed"`
	}

	Token struct {
		Base `tlog:",embed"`
	}

	Text struct {
		Base `tlog:",embed"`

		Text []byte
	}

	Hex struct {
		Base `tlog:",embed"`

		Value uint64
	}

	Header struct {
		Base `tlog:",embed"`

		Kind SectionKind
	}

	Directive struct {
		Base `tlog:",embed"`

		Kind DirectiveKind
		Arg  []byte
	}

	// Glob is an input section pattern like *(.text*).
	Glob struct {
		Base `tlog:",embed"`

		Pattern []byte
	}

	// Bracketed is an informational entry like [!provide].
	Bracketed struct {
		Base `tlog:",embed"`

		Text []byte
	}

	// Unplaced is a named entry with a size and no address.
	Unplaced struct {
		Base `tlog:",embed"`

		Name []byte
		Size uint64
	}

	// Section is an explicit-size entry: address and size on the same record.
	Section struct {
		Base `tlog:",embed"`

		Name    []byte
		Address uint64
		Size    uint64
		Source  Source
	}

	// Symbol is an address-only entry.
	Symbol struct {
		Base `tlog:",embed"`

		Name    []byte
		Address uint64
		Source  Source
	}

	Source struct {
		Base `tlog:",embed"`

		Text   []byte
		Indent int
	}

	SectionKind int

	DirectiveKind int
)

const (
	ArchiveMembers SectionKind = iota
	CommonSymbols
	DiscardedInput
	MemoryConfiguration
	MemoryMap
	CrossReference
)

const (
	Discard DirectiveKind = iota
	Load
	StartGroup
	EndGroup
	Output
	Input
	Group
	Target
	SearchDir
	OutputFormat
	OutputArch
	Entry
	Include
)

func (k SectionKind) String() string {
	switch k {
	case ArchiveMembers:
		return "archive_members"
	case CommonSymbols:
		return "common_symbols"
	case DiscardedInput:
		return "discarded_input_sections"
	case MemoryConfiguration:
		return "memory_configuration"
	case MemoryMap:
		return "memory_map"
	case CrossReference:
		return "cross_reference_table"
	default:
		return "unknown"
	}
}

func (k DirectiveKind) String() string {
	switch k {
	case Discard:
		return "discard"
	case Load:
		return "load"
	case StartGroup:
		return "start_group"
	case EndGroup:
		return "end_group"
	case Output:
		return "output"
	case Input:
		return "input"
	case Group:
		return "group"
	case Target:
		return "target"
	case SearchDir:
		return "search_dir"
	case OutputFormat:
		return "output_format"
	case OutputArch:
		return "output_arch"
	case Entry:
		return "entry"
	case Include:
		return "include"
	default:
		return "unknown"
	}
}

func (s Source) Empty() bool { return len(s.Text) == 0 }
