// Package validate checks request input against `validate` struct tags.
//
// Rules are comma-separated. The set is small: only what the
// API inputs use:
//
//	required          non-zero value
//	nullable          when the value is empty, skip the remaining rules
//	email             well-formed email address
//	url               absolute http/https URL
//	min=N / max=N     rune length for strings, value for numbers
//	gt/gte/lt/lte=N   numeric comparison
//	in=a,b,c          membership in the listed values
//	not_in=a,b,c      exclusion from the listed values
//
//	type SwapDecision struct {
//	    Status string `json:"status" validate:"required,in=accepted,rejected,completed"`
//	}
package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// Struct checks every tagged exported field of v (struct or pointer to one)
// and returns json-name → message for the first failing rule of each field.
// An empty map means the input is valid.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)

	rv := reflect.Indirect(reflect.ValueOf(v))
	if rv.Kind() != reflect.Struct {
		return errs
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		tag := rt.Field(i).Tag.Get("validate")
		if tag == "" {
			continue
		}

		name := jsonName(rt.Field(i))
		value := reflect.Indirect(rv.Field(i))

		if msg := check(tag, name, value); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

// HasErrors reports whether Struct found anything.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// check runs the tag's rules in order and returns the first failure.
func check(tag, name string, value reflect.Value) string {
	rules := splitTag(tag)

	for _, r := range rules {
		if r == "nullable" && isZero(value) {
			return ""
		}
	}

	for _, r := range rules {
		key, param, _ := strings.Cut(r, "=")
		fn, ok := ruleFns[key]
		if !ok {
			continue
		}
		if msg := fn(name, param, value); msg != "" {
			return msg
		}
	}
	return ""
}

type ruleFn func(name, param string, v reflect.Value) string

var ruleFns = map[string]ruleFn{
	"required": func(name, _ string, v reflect.Value) string {
		if isZero(v) {
			return fmt.Sprintf("The %s field is required.", name)
		}
		return ""
	},
	"email": func(name, _ string, v reflect.Value) string {
		if !emailRE.MatchString(str(v)) {
			return fmt.Sprintf("The %s must be a valid email address.", name)
		}
		return ""
	},
	"url": func(name, _ string, v reflect.Value) string {
		u, err := url.ParseRequestURI(str(v))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Sprintf("The %s must be a valid URL.", name)
		}
		return ""
	},
	"min": func(name, param string, v reflect.Value) string {
		n := num(param)
		if v.Kind() == reflect.String {
			if utfLen(v.String()) < int(n) {
				return fmt.Sprintf("The %s must be at least %s characters.", name, param)
			}
		} else if asFloat(v) < n {
			return fmt.Sprintf("The %s must be at least %s.", name, param)
		}
		return ""
	},
	"max": func(name, param string, v reflect.Value) string {
		n := num(param)
		if v.Kind() == reflect.String {
			if utfLen(v.String()) > int(n) {
				return fmt.Sprintf("The %s must not exceed %s characters.", name, param)
			}
		} else if asFloat(v) > n {
			return fmt.Sprintf("The %s must not be greater than %s.", name, param)
		}
		return ""
	},
	"gt": func(name, param string, v reflect.Value) string {
		if asFloat(v) <= num(param) {
			return fmt.Sprintf("The %s must be greater than %s.", name, param)
		}
		return ""
	},
	"gte": func(name, param string, v reflect.Value) string {
		if asFloat(v) < num(param) {
			return fmt.Sprintf("The %s must be greater than or equal to %s.", name, param)
		}
		return ""
	},
	"lt": func(name, param string, v reflect.Value) string {
		if asFloat(v) >= num(param) {
			return fmt.Sprintf("The %s must be less than %s.", name, param)
		}
		return ""
	},
	"lte": func(name, param string, v reflect.Value) string {
		if asFloat(v) > num(param) {
			return fmt.Sprintf("The %s must be less than or equal to %s.", name, param)
		}
		return ""
	},
	"in": func(name, param string, v reflect.Value) string {
		if contains(param, str(v)) {
			return ""
		}
		return fmt.Sprintf("The selected %s is invalid.", name)
	},
	"not_in": func(name, param string, v reflect.Value) string {
		if contains(param, str(v)) {
			return fmt.Sprintf("The selected %s is invalid.", name)
		}
		return ""
	},
}

var emailRE = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// splitTag separates the comma-delimited rules while keeping the value lists
// of in= / not_in= whole. A comma inside a value list only terminates the
// rule when the text after it starts another known rule.
func splitTag(tag string) []string {
	var out []string
	start := 0
	listRule := false

	for i := 0; i < len(tag); i++ {
		switch {
		case tag[i] != ',':
			head := tag[start : i+1]
			if !listRule && (strings.HasSuffix(head, "in=") || strings.HasSuffix(head, "not_in=")) {
				listRule = true
			}
		case !listRule || startsRule(tag[i+1:]):
			out = append(out, tag[start:i])
			start = i + 1
			listRule = false
		}
	}
	if start < len(tag) {
		out = append(out, tag[start:])
	}
	return out
}

func startsRule(s string) bool {
	for key := range ruleFns {
		if s == key || strings.HasPrefix(s, key+"=") || strings.HasPrefix(s, key+",") {
			return true
		}
	}
	return s == "nullable" || strings.HasPrefix(s, "nullable,")
}

func contains(list, needle string) bool {
	for _, item := range strings.Split(list, ",") {
		if strings.TrimSpace(item) == needle {
			return true
		}
	}
	return false
}

func isZero(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		// false is a legitimate submitted value
		return false
	case reflect.Invalid:
		return true
	default:
		return v.IsZero()
	}
}

func str(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}
	return fmt.Sprintf("%v", v.Interface())
}

func asFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(str(v), 64)
	return f
}

func num(param string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(param), 64)
	return f
}

func utfLen(s string) int { return len([]rune(s)) }

func jsonName(f reflect.StructField) string {
	tag, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if tag == "" || tag == "-" {
		return strings.ToLower(f.Name)
	}
	return tag
}
