package resource

import (
	"fmt"
	"strings"

	"github.com/BruksfildServices01/stay-booking/internal/httperr"
)

type Mode string

const (
	ModeReplace Mode = "replace"
	ModeAppend  Mode = "append"
)

// ParseMode defaults to replace when raw is empty.
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeReplace:
		return ModeReplace, nil
	case ModeAppend:
		return ModeAppend, nil
	default:
		return "", httperr.BadRequest(fmt.Sprintf("Unknown mode %q: use replace or append", raw))
	}
}

// Changes describes an update. Keys are API field names.
// Set overwrites fields; Append pushes values onto array fields.
type Changes struct {
	Set    map[string]any
	Append map[string]any
}

func Replace(set map[string]any) Changes {
	return Changes{Set: set}
}

func Push(field string, values any) Changes {
	return Changes{Append: map[string]any{field: values}}
}

func (c Changes) Empty() bool {
	return len(c.Set) == 0 && len(c.Append) == 0
}
