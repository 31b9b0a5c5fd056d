package sqldocument

import "slices"

type blockState int

const (
	blockIdle blockState = iota
	blockCreateHeader
	blockTypeHeader    // saw a type that needs BODY, e.g. CREATE TYPE
	blockPendingBegin  // saw a block start that may still turn out not to be one
	blockInBlock
)

// BlockRules describe when a dialect's statements contain procedural code
// and must be ended by the alternate delimiter. All words are lowercase.
type BlockRules struct {
	// HeaderStarts open a create header when they start a statement.
	HeaderStarts []string

	// Modifiers may appear in a create header before the object type.
	Modifiers []string

	// BlockTypes enter block mode when they appear in a create header.
	BlockTypes []string

	// BodyTypes enter block mode only when directly followed by BODY.
	BodyTypes []string

	// BlockStarts enter block mode when they start a statement.
	BlockStarts []string

	// BeginExceptions cancel a block start when they follow it directly,
	// as in BEGIN TRANSACTION.
	BeginExceptions []string
}

// BlockTracker is the Idle -> create header -> block state machine shared by
// the dialects whose procedural code is ended by an alternate delimiter.
//
// In a create header, modifiers and punctuation keep the header open, as
// does a word directly after punctuation (DEFINER=user@host). Any other word
// that is not a block type means the statement is not procedural.
type BlockTracker struct {
	rules     BlockRules
	standard  Delimiter
	alternate Delimiter

	state        blockState
	afterNonWord bool
}

var (
	_ DelimiterTester = (*BlockTracker)(nil)
	_ BlockTester     = (*BlockTracker)(nil)
)

func NewBlockTracker(rules BlockRules, standard, alternate Delimiter) *BlockTracker {
	return &BlockTracker{rules: rules, standard: standard, alternate: alternate}
}

func (b *BlockTracker) SetDelimiters(standard, alternate Delimiter) {
	b.standard = standard
	b.alternate = alternate
}

func (b *BlockTracker) Delimiters() (standard, alternate Delimiter) {
	return b.standard, b.alternate
}

// InBlock reports whether the current statement has been recognized as a
// procedural block.
func (b *BlockTracker) InBlock() bool {
	return b.state == blockInBlock
}

func (b *BlockTracker) CurrentToken(tok Token, startOfStatement bool) {
	isWord := tok.Type == ReservedWordToken || tok.Type == UnquotedIdentifierToken
	word := ""
	if isWord {
		word = tok.Lower()
	}

	if startOfStatement {
		b.state = blockIdle
		b.afterNonWord = false
		switch {
		case !isWord:
		case slices.Contains(b.rules.HeaderStarts, word):
			b.state = blockCreateHeader
		case slices.Contains(b.rules.BlockStarts, word):
			if len(b.rules.BeginExceptions) > 0 {
				b.state = blockPendingBegin
			} else {
				b.state = blockInBlock
			}
		}
		return
	}

	switch b.state {
	case blockPendingBegin:
		if isWord && slices.Contains(b.rules.BeginExceptions, word) {
			b.state = blockIdle
		} else {
			b.state = blockInBlock
		}
	case blockTypeHeader:
		if isWord && word == "body" {
			b.state = blockInBlock
		} else {
			b.state = blockIdle
		}
	case blockCreateHeader:
		switch {
		case !isWord:
			b.afterNonWord = true
			return
		case slices.Contains(b.rules.BlockTypes, word):
			b.state = blockInBlock
		case slices.Contains(b.rules.BodyTypes, word):
			b.state = blockTypeHeader
		case slices.Contains(b.rules.Modifiers, word), b.afterNonWord:
		default:
			b.state = blockIdle
		}
		b.afterNonWord = false
	}
}

// CurrentDelimiter returns the alternate delimiter in block mode when one
// is configured, and the standard delimiter otherwise.
func (b *BlockTracker) CurrentDelimiter() Delimiter {
	if b.state == blockInBlock && !b.alternate.IsEmpty() {
		return b.alternate
	}
	return b.standard
}

func (b *BlockTracker) StatementFinished() {
	b.state = blockIdle
	b.afterNonWord = false
}
