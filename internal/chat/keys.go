package chat

const (
	historyKeyPrefix = "ai-chat-history-"

	// IndexKey holds the ids of every live chat instance.
	IndexKey = "ai-chat-index"
)

func HistoryKey(instanceId string) string {
	return historyKeyPrefix + instanceId
}
