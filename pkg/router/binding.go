package router

import (
	"fmt"
	"net/url"
	"reflect"
	"strconv"
)

// bindQuery fills req from URL query values by json tag. Only the flat kinds
// that appear in request models are supported.
func bindQuery(values url.Values, req any) error {
	v := reflect.ValueOf(req).Elem()
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		name := t.Field(i).Tag.Get("json")
		if name == "" || name == "-" {
			continue
		}

		queryVal := values.Get(name)
		if queryVal == "" {
			continue
		}

		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(queryVal)

		case reflect.Int, reflect.Int64:
			n, err := strconv.ParseInt(queryVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value of %s: %w", name, err)
			}
			field.SetInt(n)

		case reflect.Bool:
			b, err := strconv.ParseBool(queryVal)
			if err != nil {
				return fmt.Errorf("invalid value of %s: %w", name, err)
			}
			field.SetBool(b)

		default:
			return fmt.Errorf("unsupported query field %s", name)
		}
	}

	return nil
}
