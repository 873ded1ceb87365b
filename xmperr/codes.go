package xmperr

import "fmt"

// Domain classifies an error record.
type Domain int

const (
	NoDomain Domain = iota
	Configuration
	General
	MemoryManagement
	DataModel
	Parser
	Serializer
	DomainMax
)

func (d Domain) String() string {
	switch d {
	case NoDomain:
		return "none"
	case Configuration:
		return "configuration"
	case General:
		return "general"
	case MemoryManagement:
		return "memory"
	case DataModel:
		return "datamodel"
	case Parser:
		return "parser"
	case Serializer:
		return "serializer"
	default:
		return fmt.Sprintf("<domain %d>", int(d))
	}
}

// Code is a numeric error code, unique within its Domain.
type Code int

// Configuration codes.
const (
	ConfigNone Code = iota
	KeyNotSupported
	ValueTypeNotSupported
	PreviousTypeDifferent
	ValueTypeMismatch
	ValueNotSupported
	ConfigMax
)

// General codes.
const (
	GeneralNone Code = iota
	ParametersNotAsExpected
	VersionUnavailable
	AssertionFailure
	LogicalError
	IndexOutOfBounds
	InternalFailure
	DeprecatedFunctionCall
	ExternalFailure
	UnknownFailure
	UserAbort
	InterfaceUnavailable
	ClientThrownExceptionCaught
	StandardException
	UnknownExceptionCaught
	NotImplemented
	GeneralMax
)

// MemoryManagement codes.
const (
	MemoryNone Code = iota
	AllocationFailure
	MemoryMax
)

// DataModel codes.
const (
	DataModelNone Code = iota
	NameSpacePrefixMapEntryMissing
	DifferentNodeTypePresent
	NodeAlreadyAChild
	NodeAlreadyExists
	NoSuchNodeExists
	ArrayItemTypeDifferent
	InvalidPathSegment
	BadSchema
	BadXPath
	BadOptions
	BadIterPosition
	BadUnicode
	ValidationError
	EmptyIterator
	DataModelMax
)

// Parser codes.
const (
	ParserNone Code = iota
	BadXML
	BadRDF
	BadXMP
	InvalidContextNode
	ContextNodeIsNonComposite
	ContextNodeParentIsNonArray
	ParserMax
)

// Serializer codes.
const (
	SerializerNone Code = iota
	SizeExceed
	UnRegisteredNameSpace
	SerializerMax
)

var maxCodes = map[Domain]Code{
	NoDomain:         1,
	Configuration:    ConfigMax,
	General:          GeneralMax,
	MemoryManagement: MemoryMax,
	DataModel:        DataModelMax,
	Parser:           ParserMax,
	Serializer:       SerializerMax,
}

// Max returns the sentinel of domain d. Every valid code of d is
// strictly less than it.
func Max(d Domain) Code {
	return maxCodes[d]
}

// Valid reports whether c is a known code of d. Records produced by a
// newer library may carry codes that fail this check; callers should treat
// them as opaque failures of the domain.
func Valid(d Domain, c Code) bool {
	m, ok := maxCodes[d]
	if !ok {
		return false
	}
	return c >= 0 && c < m
}

var codeNames = map[Domain][]string{
	Configuration: {"none", "key not supported", "value type not supported",
		"previous type different", "value type mismatch", "value not supported"},
	General: {"none", "parameters not as expected", "version unavailable",
		"assertion failure", "logical error", "index out of bounds",
		"internal failure", "deprecated function call", "external failure",
		"unknown failure", "user abort", "interface unavailable",
		"client thrown exception caught", "standard exception",
		"unknown exception caught", "not implemented"},
	MemoryManagement: {"none", "allocation failure"},
	DataModel: {"none", "namespace prefix map entry missing",
		"different node type present", "node already a child",
		"node already exists", "no such node exists",
		"array item type different", "invalid path segment", "bad schema",
		"bad xpath", "bad options", "bad iterator position", "bad unicode",
		"validation error", "empty iterator"},
	Parser: {"none", "bad xml", "bad rdf", "bad xmp", "invalid context node",
		"context node is non-composite", "context node parent is non-array"},
	Serializer: {"none", "size exceed", "unregistered namespace"},
}

// CodeName returns a human readable name for c within d.
func CodeName(d Domain, c Code) string {
	if !Valid(d, c) {
		return fmt.Sprintf("<code %d>", int(c))
	}
	names := codeNames[d]
	if int(c) >= len(names) {
		return fmt.Sprintf("<code %d>", int(c))
	}
	return names[c]
}

// Severity orders how bad a failure is.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityOperationFatal
	SeverityProcessFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityOperationFatal:
		return "operation-fatal"
	case SeverityProcessFatal:
		return "process-fatal"
	default:
		return fmt.Sprintf("<severity %d>", int(s))
	}
}
