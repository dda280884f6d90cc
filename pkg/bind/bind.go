// Package bind decodes a JSON request body into a struct and validates
// it in one call, so controllers branch on exactly two outcomes.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rewearhq/rewear/config"
	"github.com/rewearhq/rewear/pkg/validate"
)

const defaultBodyCap = 4 << 20 // MAX_BODY_BYTES default

func bodyCap() int64 {
	n, err := strconv.ParseInt(config.Get("MAX_BODY_BYTES", ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultBodyCap
	}
	return n
}

// JSON fills dest from r.Body and runs the struct's validation rules.
// A non-nil errs map means validation failed; a non-nil err means the
// body itself was unreadable (malformed JSON, or over MAX_BODY_BYTES).
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, bodyCap())

	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", tooBig.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if errs := validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
