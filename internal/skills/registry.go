package skills

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	apperr "github.com/vcenk/SmartRealtorAgent/internal/pkg/errors"
)

// Registry executes the closed skill set. It is the single enforcement
// point for permissions and input/output contracts; nothing may call a
// skill implementation directly.
type Registry struct {
	store Storage
}

func NewRegistry(store Storage) *Registry {
	return &Registry{store: store}
}

func (r *Registry) List() []string {
	return []string{NameKBSearch, NameLeadsUpsert, NameConversationsAppend}
}

// Execute runs one skill by name. Order: lookup, permission gate, input
// validation, execution, output validation. Each step short-circuits
// with its own sentinel error.
func (r *Registry) Execute(ctx context.Context, name string, rawInput json.RawMessage, sctx Context) (interface{}, error) {
	switch name {
	case NameKBSearch:
		if !sctx.HasPermission(PermKBRead) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrPermissionDenied, name)
		}
		var in KBSearchInput
		if err := decodeInput(rawInput, &in); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", apperr.ErrInvalidInput, name, err)
		}
		if err := in.validate(); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", apperr.ErrInvalidInput, name, err)
		}
		out, err := r.execKBSearch(ctx, in, sctx)
		if err != nil {
			return nil, err
		}
		if err := out.validate(); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", apperr.ErrInvalidOutput, name, err)
		}
		return out, nil

	case NameLeadsUpsert:
		if !sctx.HasPermission(PermLeadWrite) {
			return nil, fmt.Errorf("%w: %s", apperr.ErrPermissionDenied, name)
		}
		var in LeadsUpsertInput
		if err := decodeInput(rawInput, &in); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", apperr.ErrInvalidInput, name, err)
		}
		if err := in.validate(); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", apperr.ErrInvalidInput, name, err)
		}
		out, err := r.execLeadsUpsert(ctx, in, sctx)
		if err != nil {
			return nil, err
		}
		if err := out.validate(); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", apperr.ErrInvalidOutput, name, err)
		}
		return out, nil

	case NameConversationsAppend:
		if !sctx.HasPermission(PermConversationWrite) || sctx.ConversationID == "" {
			return nil, fmt.Errorf("%w: %s", apperr.ErrPermissionDenied, name)
		}
		var in AppendMessageInput
		if err := decodeInput(rawInput, &in); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", apperr.ErrInvalidInput, name, err)
		}
		if err := in.validate(); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", apperr.ErrInvalidInput, name, err)
		}
		out, err := r.execAppendMessage(ctx, in, sctx)
		if err != nil {
			return nil, err
		}
		if err := out.validate(); err != nil {
			return nil, fmt.Errorf("%w for %s: %v", apperr.ErrInvalidOutput, name, err)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: %s", apperr.ErrUnknownTool, name)
	}
}

func decodeInput(raw json.RawMessage, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
