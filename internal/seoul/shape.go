// internal/seoul/shape.go
package seoul

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	apperrors "seoul-estate-search/internal/common/errors"
	"seoul-estate-search/internal/estate"
)

// The Seoul API wraps rows as
//
//	{"<dataset>": {"list_total_count": n, "RESULT": {...}, "row": [...]}}
//
// and signals "no data" (and some errors) as a bare
//
//	{"RESULT": {"CODE": "INFO-200", "MESSAGE": "..."}}
//
// Both shapes are validated with JSON schema so "no data" and "malformed
// data" are distinguishable: the former is an empty result, the latter a
// shape error.

const datasetEnvelopeSchemaTmpl = `{
	"type": "object",
	"properties": {
		%q: {
			"type": "object",
			"properties": {
				"list_total_count": {"type": "integer"},
				"RESULT": {"type": "object"},
				"row": {"type": "array", "items": {"type": "object"}}
			},
			"required": ["row"]
		}
	},
	"required": [%q]
}`

const resultOnlySchema = `{
	"type": "object",
	"properties": {
		"RESULT": {
			"type": "object",
			"properties": {
				"CODE": {"type": "string"},
				"MESSAGE": {"type": "string"}
			},
			"required": ["CODE"]
		}
	},
	"required": ["RESULT"]
}`

// Result code prefix the API uses for "query matched nothing".
const codeNoData = "INFO-200"

type envelope struct {
	ListTotalCount int             `json:"list_total_count"`
	Result         *resultBlock    `json:"RESULT"`
	Row            []estate.RawRow `json:"row"`
}

type resultBlock struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

// decodeEnvelope validates and unwraps an upstream response body into rows.
func decodeEnvelope(dataset string, body []byte) ([]estate.RawRow, error) {
	doc := gojsonschema.NewBytesLoader(body)

	datasetSchema := gojsonschema.NewStringLoader(
		fmt.Sprintf(datasetEnvelopeSchemaTmpl, dataset, dataset))
	if res, err := gojsonschema.Validate(datasetSchema, doc); err == nil && res.Valid() {
		return unwrapRows(dataset, body)
	}

	resultSchema := gojsonschema.NewStringLoader(resultOnlySchema)
	res, err := gojsonschema.Validate(resultSchema, doc)
	if err != nil {
		return nil, apperrors.NewDataShapeInvalid(fmt.Sprintf("dataset %s: %v", dataset, err))
	}
	if !res.Valid() {
		return nil, apperrors.NewDataShapeInvalid(
			fmt.Sprintf("dataset %s: %s", dataset, formatSchemaErrors(res)))
	}

	var bare struct {
		Result resultBlock `json:"RESULT"`
	}
	if err := json.Unmarshal(body, &bare); err != nil {
		return nil, apperrors.NewDataShapeInvalid(fmt.Sprintf("dataset %s: %v", dataset, err))
	}
	if strings.HasPrefix(bare.Result.Code, codeNoData) {
		return nil, nil
	}
	return nil, apperrors.NewUpstreamFailed(0,
		fmt.Sprintf("dataset %s: upstream result %s: %s", dataset, bare.Result.Code, bare.Result.Message))
}

func unwrapRows(dataset string, body []byte) ([]estate.RawRow, error) {
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, apperrors.NewDataShapeInvalid(fmt.Sprintf("dataset %s: %v", dataset, err))
	}

	var env envelope
	if err := json.Unmarshal(outer[dataset], &env); err != nil {
		return nil, apperrors.NewDataShapeInvalid(fmt.Sprintf("dataset %s: %v", dataset, err))
	}
	return env.Row, nil
}

func formatSchemaErrors(res *gojsonschema.Result) string {
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}
