package transfer

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/countup/internal/store"
)

// ErrInvalidDocument is returned when an import document fails validation.
var ErrInvalidDocument = errors.New("invalid progress document")

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://countup-progress.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error

	validate = validator.New(validator.WithRequiredStructEnabled())
)

func documentSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal(schemaJSON, &def); err != nil {
			compileErr = fmt.Errorf("parse document schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add document schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Decode reads and validates a document. The raw JSON is checked against
// the document schema first, then the decoded records are checked for
// consistency.
func Decode(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: not valid JSON: %v", ErrInvalidDocument, err)
	}
	sch, err := documentSchema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if err := Check(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Check validates field ranges and that every record belongs to the
// document's user.
func Check(doc *Document) error {
	if err := validate.Struct(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	for _, m := range doc.Modes {
		if m.UserID != doc.UserID {
			return fmt.Errorf("%w: mode %s belongs to %q", ErrInvalidDocument, m.ModeID, m.UserID)
		}
	}
	for _, st := range doc.Mastery {
		if st.UserID != doc.UserID {
			return fmt.Errorf("%w: tier %d belongs to %q", ErrInvalidDocument, st.AgeTier, st.UserID)
		}
	}
	for _, h := range doc.History {
		if h.UserID != doc.UserID {
			return fmt.Errorf("%w: history %s belongs to %q", ErrInvalidDocument, h.ID, h.UserID)
		}
	}
	return nil
}

// ImportOptions controls how a document is written.
type ImportOptions struct {
	// UserID, when set, imports the document under a different child.
	UserID string
	// Replace clears the child's mode progress and mastery first.
	Replace bool
}

// Import writes a checked document. Stores that support transactions
// apply the whole document atomically.
func Import(ctx context.Context, s store.ProgressStore, doc *Document, opts ImportOptions) error {
	if err := Check(doc); err != nil {
		return err
	}
	userID := doc.UserID
	if opts.UserID != "" {
		userID = opts.UserID
	}

	write := func(ps store.ProgressStore) error {
		if opts.Replace {
			if err := ps.ResetUser(ctx, userID); err != nil {
				return err
			}
		}
		if err := ps.SetUserAge(ctx, userID, doc.Age); err != nil {
			return err
		}
		for _, m := range doc.Modes {
			m.UserID = userID
			if err := ps.PutModeProgress(ctx, m); err != nil {
				return err
			}
		}
		for _, st := range doc.Mastery {
			st.UserID = userID
			if st.PendingRequest != nil {
				req := *st.PendingRequest
				req.UserID = userID
				st.PendingRequest = &req
			}
			if err := ps.PutMasteryState(ctx, st); err != nil {
				return err
			}
		}
		for _, h := range doc.History {
			h.UserID = userID
			if err := ps.AppendGraduationHistory(ctx, h); err != nil {
				return err
			}
		}
		return nil
	}

	var err error
	if tx, ok := s.(store.Transactor); ok {
		err = tx.WithTx(ctx, write)
	} else {
		err = write(s)
	}
	if err != nil {
		return fmt.Errorf("import %s: %w", userID, err)
	}
	return nil
}
