package ast

// Kind identifies the syntactic category of a Node.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindFile

	// declarations
	KindImportDecl
	KindClassDecl
	KindStructDecl
	KindEnumDecl
	KindProtocolDecl
	KindExtensionDecl
	KindActorDecl
	KindTypealiasDecl
	KindAssociatedTypeDecl
	KindFuncDecl
	KindInitDecl
	KindDeinitDecl
	KindSubscriptDecl
	KindVarDecl // Text: "let" or "var"
	KindBinding // pattern [: type] [= expr] [accessors]
	KindEnumCaseDecl
	KindEnumElement // Text: case name
	KindOperatorDecl
	KindAccessor // Text: get, set, willSet, didSet
	KindAttribute
	KindModifier
	KindGenericParams
	KindGenericParam
	KindWhereClause
	KindInheritance
	KindParamList
	KindParam // Text: internal name, Label: external label
	KindReturnClause

	// patterns
	KindIdentPattern
	KindTuplePattern
	KindWildcardPattern
	KindValueBindingPattern // Text: "let" or "var"
	KindExprPattern
	KindTypedPattern

	// statements
	KindCodeBlock
	KindIfStmt
	KindGuardStmt
	KindForInStmt
	KindWhileStmt
	KindRepeatWhileStmt
	KindSwitchStmt
	KindSwitchCase // Text: "case" or "default"
	KindReturnStmt
	KindThrowStmt
	KindBreakStmt
	KindContinueStmt
	KindFallthroughStmt
	KindDeferStmt
	KindDoStmt
	KindCatchClause
	KindLabeledStmt
	KindDirective // #if / #else / #endif lines
	KindConditionList
	KindOptionalBinding // Text: "let" or "var"
	KindCaseCondition
	KindAvailabilityCondition

	// expressions
	KindIdentExpr
	KindLiteralExpr
	KindSelfExpr
	KindSuperExpr
	KindImplicitMemberExpr
	KindMemberExpr
	KindCallExpr
	KindArgList
	KindArg // Label: argument label
	KindSubscriptExpr
	KindForceUnwrapExpr
	KindOptionalChainExpr
	KindPostfixExpr
	KindPrefixExpr
	KindBinaryExpr // Text: operator
	KindTernaryExpr
	KindTryExpr // Text: try, try?, try!
	KindAwaitExpr
	KindCastExpr // Text: as, as?, as!, is
	KindClosureExpr
	KindClosureSignature
	KindCaptureList
	KindTupleExpr
	KindParenExpr
	KindArrayExpr
	KindDictExpr
	KindDictElement
	KindKeyPathExpr
	KindSpecializeExpr
	KindWildcardExpr
	KindPoundExpr // #selector(...), #file, #available

	// types
	KindTypeIdent
	KindMemberType
	KindOptionalType
	KindIUOType
	KindArrayType
	KindDictType
	KindTupleType
	KindTupleTypeElement // Label: element name
	KindFunctionType
	KindOpaqueType // Text: some or any
	KindCompositionType
	KindMetatype
	KindAttributedType // Text: inout or @attribute

	kindCount
)

var kindNames = [...]string{
	KindInvalid:               "Invalid",
	KindFile:                  "File",
	KindImportDecl:            "ImportDecl",
	KindClassDecl:             "ClassDecl",
	KindStructDecl:            "StructDecl",
	KindEnumDecl:              "EnumDecl",
	KindProtocolDecl:          "ProtocolDecl",
	KindExtensionDecl:         "ExtensionDecl",
	KindActorDecl:             "ActorDecl",
	KindTypealiasDecl:         "TypealiasDecl",
	KindAssociatedTypeDecl:    "AssociatedTypeDecl",
	KindFuncDecl:              "FuncDecl",
	KindInitDecl:              "InitDecl",
	KindDeinitDecl:            "DeinitDecl",
	KindSubscriptDecl:         "SubscriptDecl",
	KindVarDecl:               "VarDecl",
	KindBinding:               "Binding",
	KindEnumCaseDecl:          "EnumCaseDecl",
	KindEnumElement:           "EnumElement",
	KindOperatorDecl:          "OperatorDecl",
	KindAccessor:              "Accessor",
	KindAttribute:             "Attribute",
	KindModifier:              "Modifier",
	KindGenericParams:         "GenericParams",
	KindGenericParam:          "GenericParam",
	KindWhereClause:           "WhereClause",
	KindInheritance:           "Inheritance",
	KindParamList:             "ParamList",
	KindParam:                 "Param",
	KindReturnClause:          "ReturnClause",
	KindIdentPattern:          "IdentPattern",
	KindTuplePattern:          "TuplePattern",
	KindWildcardPattern:       "WildcardPattern",
	KindValueBindingPattern:   "ValueBindingPattern",
	KindExprPattern:           "ExprPattern",
	KindTypedPattern:          "TypedPattern",
	KindCodeBlock:             "CodeBlock",
	KindIfStmt:                "IfStmt",
	KindGuardStmt:             "GuardStmt",
	KindForInStmt:             "ForInStmt",
	KindWhileStmt:             "WhileStmt",
	KindRepeatWhileStmt:       "RepeatWhileStmt",
	KindSwitchStmt:            "SwitchStmt",
	KindSwitchCase:            "SwitchCase",
	KindReturnStmt:            "ReturnStmt",
	KindThrowStmt:             "ThrowStmt",
	KindBreakStmt:             "BreakStmt",
	KindContinueStmt:          "ContinueStmt",
	KindFallthroughStmt:       "FallthroughStmt",
	KindDeferStmt:             "DeferStmt",
	KindDoStmt:                "DoStmt",
	KindCatchClause:           "CatchClause",
	KindLabeledStmt:           "LabeledStmt",
	KindDirective:             "Directive",
	KindConditionList:         "ConditionList",
	KindOptionalBinding:       "OptionalBinding",
	KindCaseCondition:         "CaseCondition",
	KindAvailabilityCondition: "AvailabilityCondition",
	KindIdentExpr:             "IdentExpr",
	KindLiteralExpr:           "LiteralExpr",
	KindSelfExpr:              "SelfExpr",
	KindSuperExpr:             "SuperExpr",
	KindImplicitMemberExpr:    "ImplicitMemberExpr",
	KindMemberExpr:            "MemberExpr",
	KindCallExpr:              "CallExpr",
	KindArgList:               "ArgList",
	KindArg:                   "Arg",
	KindSubscriptExpr:         "SubscriptExpr",
	KindForceUnwrapExpr:       "ForceUnwrapExpr",
	KindOptionalChainExpr:     "OptionalChainExpr",
	KindPostfixExpr:           "PostfixExpr",
	KindPrefixExpr:            "PrefixExpr",
	KindBinaryExpr:            "BinaryExpr",
	KindTernaryExpr:           "TernaryExpr",
	KindTryExpr:               "TryExpr",
	KindAwaitExpr:             "AwaitExpr",
	KindCastExpr:              "CastExpr",
	KindClosureExpr:           "ClosureExpr",
	KindClosureSignature:      "ClosureSignature",
	KindCaptureList:           "CaptureList",
	KindTupleExpr:             "TupleExpr",
	KindParenExpr:             "ParenExpr",
	KindArrayExpr:             "ArrayExpr",
	KindDictExpr:              "DictExpr",
	KindDictElement:           "DictElement",
	KindKeyPathExpr:           "KeyPathExpr",
	KindSpecializeExpr:        "SpecializeExpr",
	KindWildcardExpr:          "WildcardExpr",
	KindPoundExpr:             "PoundExpr",
	KindTypeIdent:             "TypeIdent",
	KindMemberType:            "MemberType",
	KindOptionalType:          "OptionalType",
	KindIUOType:               "IUOType",
	KindArrayType:             "ArrayType",
	KindDictType:              "DictType",
	KindTupleType:             "TupleType",
	KindTupleTypeElement:      "TupleTypeElement",
	KindFunctionType:          "FunctionType",
	KindOpaqueType:            "OpaqueType",
	KindCompositionType:       "CompositionType",
	KindMetatype:              "Metatype",
	KindAttributedType:        "AttributedType",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsTypeDecl reports whether k declares a nominal type.
func (k Kind) IsTypeDecl() bool {
	switch k {
	case KindClassDecl, KindStructDecl, KindEnumDecl, KindProtocolDecl, KindActorDecl:
		return true
	default:
		return false
	}
}

// IsDecl reports whether k is any declaration.
func (k Kind) IsDecl() bool {
	return k >= KindImportDecl && k <= KindOperatorDecl
}

// IsControlFlow reports whether k is a statement that opens a nested scope
// of control flow.
func (k Kind) IsControlFlow() bool {
	switch k {
	case KindIfStmt, KindGuardStmt, KindForInStmt, KindWhileStmt, KindRepeatWhileStmt,
		KindSwitchStmt, KindDoStmt:
		return true
	default:
		return false
	}
}

// IsType reports whether k is a type node.
func (k Kind) IsType() bool {
	return k >= KindTypeIdent && k < kindCount
}

// IsFunctionLike reports whether k declares a callable body.
func (k Kind) IsFunctionLike() bool {
	switch k {
	case KindFuncDecl, KindInitDecl, KindDeinitDecl, KindSubscriptDecl, KindAccessor:
		return true
	default:
		return false
	}
}
