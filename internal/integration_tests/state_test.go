package integrationtests

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-engine/internal/database"
	"ai-engine/internal/engine"
	"ai-engine/internal/llm"
	"ai-engine/internal/state"
	"ai-engine/pkg/api"
)

func newPostgresStore(t *testing.T, ctx context.Context) state.Store {
	db, err := database.NewDatabase(setupPostgresContainer(t, ctx))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return state.NewGormStore(db)
}

func newMinioStore(t *testing.T, ctx context.Context) state.Store {
	store, err := state.NewS3Store(state.S3Config{
		Endpoint:        setupMinioContainer(t, ctx),
		Region:          "us-east-1",
		AccessKeyID:     minioUsername,
		SecretAccessKey: minioPassword,
		Bucket:          "test-state-bucket",
		Prefix:          "chats",
	})
	require.NoError(t, err)
	require.NoError(t, store.EnsureBucket(ctx))
	// A second call finds the bucket already there.
	require.NoError(t, store.EnsureBucket(ctx))
	return store
}

func newRedisStore(t *testing.T, ctx context.Context) state.Store {
	store, err := state.NewRedisStore(setupRedisContainer(t, ctx))
	require.NoError(t, err)
	require.NoError(t, store.Ping(ctx))
	t.Cleanup(func() { store.Close() })
	return store
}

var storeFactories = map[string]func(t *testing.T, ctx context.Context) state.Store{
	"postgres": newPostgresStore,
	"minio":    newMinioStore,
	"redis":    newRedisStore,
}

func TestStateStores(t *testing.T) {
	skipIfShort(t)

	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
			defer cancel()

			store := factory(t, ctx)

			_, found, err := store.Get(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Save(ctx, "key", []byte(`{"items":[]}`)))
			value, found, err := store.Get(ctx, "key")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `{"items":[]}`, string(value))

			require.NoError(t, store.Delete(ctx, "key"))
			_, found, err = store.Get(ctx, "key")
			require.NoError(t, err)
			assert.False(t, found)

			require.NoError(t, store.Delete(ctx, "key"))
		})
	}
}

func TestStateStores_ConcurrentUpdates(t *testing.T) {
	skipIfShort(t)

	for _, name := range []string{"postgres", "redis"} {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
			defer cancel()

			updater, ok := storeFactories[name](t, ctx).(state.Updater)
			require.True(t, ok, "%s store should support atomic updates", name)

			var wg sync.WaitGroup
			for i := 0; i < 5; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					err := updater.Update(ctx, "counter", func(current []byte, exists bool) ([]byte, bool, error) {
						return append(current, 'x'), true, nil
					})
					assert.NoError(t, err)
				}()
			}
			wg.Wait()

			value, found, err := updater.(state.Store).Get(ctx, "counter")
			require.NoError(t, err)
			require.True(t, found)
			assert.Len(t, value, 5)
		})
	}
}

func TestEngineOnStateStores(t *testing.T) {
	skipIfShort(t)

	for name, factory := range storeFactories {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
			defer cancel()

			summarizer, err := llm.NewCompletionSummarizer(llm.Echo{}, "Summarize: {0}")
			require.NoError(t, err)

			e := engine.New(factory(t, ctx), llm.Echo{}, summarizer, engine.Options{})

			require.NoError(t, e.CreateChat(ctx, api.CreateChatRequest{InstanceId: "chat-1", System: "be brief"}))
			assert.ErrorIs(t, e.CreateChat(ctx, api.CreateChatRequest{InstanceId: "chat-1"}), engine.ErrAlreadyExists)

			res, err := e.CompleteText(ctx, api.CompletionRequest{InstanceId: "chat-1", User: "hello"})
			require.NoError(t, err)
			assert.Equal(t, "chat-1", res.InstanceId)
			assert.Equal(t, "echo (1 prior messages): hello", res.Assistant)

			chat, err := e.GetChat(ctx, api.GetChatRequest{InstanceId: "chat-1"})
			require.NoError(t, err)
			require.NotNil(t, chat.History)
			assert.Equal(t, []api.ChatHistoryItem{
				{Role: "system", Message: "be brief"},
				{Role: "user", Message: "hello"},
				{Role: "assistant", Message: "echo (1 prior messages): hello"},
			}, chat.History.Items)

			_, err = e.CompleteText(ctx, api.CompletionRequest{InstanceId: "chat-2", User: "hi"})
			require.NoError(t, err)

			chats, err := e.GetChats(ctx, api.GetChatsRequest{WithHistory: true})
			require.NoError(t, err)
			require.Len(t, chats.Chats, 2)
			assert.Equal(t, "chat-1", chats.Chats[0].InstanceId)
			assert.Equal(t, "chat-2", chats.Chats[1].InstanceId)
			assert.Len(t, chats.Chats[1].History.Items, 2)

			require.NoError(t, e.TerminateChat(ctx, api.TerminateChatRequest{InstanceId: "chat-1"}))
			chat, err = e.GetChat(ctx, api.GetChatRequest{InstanceId: "chat-1"})
			require.NoError(t, err)
			assert.Nil(t, chat.History)

			chats, err = e.GetChats(ctx, api.GetChatsRequest{})
			require.NoError(t, err)
			require.Len(t, chats.Chats, 1)
			assert.Equal(t, "chat-2", chats.Chats[0].InstanceId)

			text := "the quick brown fox"
			summary, err := e.SummarizeText(ctx, api.SummarizeRequest{Text: &text})
			require.NoError(t, err)
			assert.Equal(t, "echo (0 prior messages): the quick brown fox", summary.Summary)
		})
	}
}
