package common

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

// ParseJSONLenient 先解析整段文字，失敗時改解析第一個 ``` 區塊
func ParseJSONLenient(raw string, v interface{}) error {
	err := ParseJSON(raw, v)
	if err == nil {
		return nil
	}
	block, ok := ExtractFencedBlock(raw)
	if !ok {
		return err
	}
	return ParseJSON(block, v)
}

var fencedBlockPattern = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// ExtractFencedBlock 取出第一個 ``` 程式碼區塊的內容
func ExtractFencedBlock(raw string) (string, bool) {
	match := fencedBlockPattern.FindStringSubmatch(raw)
	if match == nil || match[1] == "" {
		return "", false
	}
	return match[1], true
}
