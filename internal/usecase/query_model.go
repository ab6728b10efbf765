package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"

	"github.com/mdjska/daylight-analysis/internal/domain"
)

// QueryModel evaluates a JSONPath expression against a raw model file.
// It works on the JSON document, not the mapped domain model, so every
// exported field is reachable, including the ones the loader drops.
type QueryModel struct{}

func NewQueryModel() *QueryModel {
	return &QueryModel{}
}

func (uc *QueryModel) Execute(raw []byte, expr string) (any, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, &domain.OpError{
			Op:   "usecase.query",
			Kind: domain.KindInvalidParams,
			Err:  fmt.Errorf("empty jsonpath expression"),
		}
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &domain.OpError{
			Op:   "usecase.query",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("model is not valid JSON: %w", err),
		}
	}

	val, err := jsonpath.Get(expr, doc)
	if err != nil {
		return nil, &domain.OpError{
			Op:   "usecase.query",
			Kind: domain.KindInvalidParams,
			Err:  fmt.Errorf("jsonpath %q: %w", expr, err),
		}
	}
	return val, nil
}
