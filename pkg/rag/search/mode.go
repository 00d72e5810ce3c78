package search

import "ai-digest-be/internal/pkg/apperror"

// Mode is the closed set of search strategies. It is dispatched once at the
// top of Execute so new modes cannot leave one code path behind.
type Mode string

const (
	ModeSemantic Mode = "semantic"
	ModeKeyword  Mode = "keyword"
	ModeHybrid   Mode = "hybrid"
)

// ParseMode maps the wire value onto the enum. Empty defaults to hybrid.
func ParseMode(value string) (Mode, error) {
	switch value {
	case "":
		return ModeHybrid, nil
	case string(ModeSemantic):
		return ModeSemantic, nil
	case string(ModeKeyword):
		return ModeKeyword, nil
	case string(ModeHybrid):
		return ModeHybrid, nil
	default:
		return "", &apperror.ValidationError{Field: "mode", Message: "must be semantic, keyword or hybrid"}
	}
}

func (m Mode) includesSemantic() bool {
	return m == ModeSemantic || m == ModeHybrid
}

func (m Mode) includesKeyword() bool {
	return m == ModeKeyword || m == ModeHybrid
}
