package cache

import (
	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

func marshalSnapshot(v any) ([]byte, error) {
	return jsonAPI.Marshal(v)
}

func unmarshalSnapshot(data []byte, dest any) error {
	return jsonAPI.Unmarshal(data, dest)
}
