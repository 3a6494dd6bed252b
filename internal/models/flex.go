package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexFloat число, которое в JSON может прийти как число или как строка ("70", "70.5")
type FlexFloat struct {
	Value float64
	// Valid false, если строка не является числом
	Valid bool
	Raw   string
}

// UnmarshalJSON принимает числа и строки с числами; нечисловые строки помечаются как невалидные
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f.Raw = s
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			f.Valid = false
			return nil
		}
		f.Value, f.Valid = v, true
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid number: %s", string(data))
	}
	f.Value, f.Valid, f.Raw = v, true, string(data)
	return nil
}

// MarshalJSON сериализует значение как число
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Value)
}
