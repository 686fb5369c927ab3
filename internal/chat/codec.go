package chat

import (
	"encoding/json"
	"fmt"

	"ai-engine/pkg/api"
)

type indexRecord struct {
	Ids []string `json:"ids"`
}

func EncodeHistory(history api.ChatHistory) ([]byte, error) {
	if history.Items == nil {
		history.Items = []api.ChatHistoryItem{}
	}
	data, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("error encoding chat history: %w", err)
	}
	return data, nil
}

func DecodeHistory(data []byte) (api.ChatHistory, error) {
	var history api.ChatHistory
	if err := json.Unmarshal(data, &history); err != nil {
		return api.ChatHistory{}, fmt.Errorf("error decoding chat history: %w", err)
	}
	if history.Items == nil {
		history.Items = []api.ChatHistoryItem{}
	}
	return history, nil
}

func encodeIndex(ids []string) ([]byte, error) {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(indexRecord{Ids: ids})
	if err != nil {
		return nil, fmt.Errorf("error encoding chat index: %w", err)
	}
	return data, nil
}

func decodeIndex(data []byte) ([]string, error) {
	var record indexRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("error decoding chat index: %w", err)
	}
	if record.Ids == nil {
		record.Ids = []string{}
	}
	return record.Ids, nil
}
