package utils

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// JSONToStrings converts a datatypes.JSON array column to a string slice
func JSONToStrings(jsonData datatypes.JSON) ([]string, error) {
	if len(jsonData) == 0 {
		return nil, nil
	}
	var result []string
	err := json.Unmarshal(jsonData, &result)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StringsToJSON converts a string slice to a datatypes.JSON array column
func StringsToJSON(data []string) (datatypes.JSON, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return jsonData, nil
}
