package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"regexp"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/gen2brain/go-fitz"
	"github.com/go-resty/resty/v2"

	"ai-engine/pkg/api"
)

// DocumentFetcher loads the text of a document given by url.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher downloads documents over http(s). PDF bodies are rendered to
// markdown page by page and HTML bodies are converted to markdown; anything
// else is used as-is.
type HTTPFetcher struct {
	client *resty.Client
}

var _ DocumentFetcher = (*HTTPFetcher)(nil)

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: resty.New().SetTimeout(timeout)}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("error fetching document '%s': %w", url, err)
	}
	if res.IsError() {
		return "", fmt.Errorf("error fetching document '%s': status %d", url, res.StatusCode())
	}

	body := res.Body()
	mediaType, _, _ := mime.ParseMediaType(res.Header().Get("Content-Type"))

	switch {
	case mediaType == "application/pdf" || bytes.HasPrefix(body, []byte("%PDF-")):
		return pdfToMarkdown(body)
	case mediaType == "text/html":
		text, err := md.NewConverter("", true, nil).ConvertString(string(body))
		if err != nil {
			return "", fmt.Errorf("error converting html document: %w", err)
		}
		return text, nil
	default:
		return string(body), nil
	}
}

var embeddedImages = regexp.MustCompile(`!\[\]\(data:image/[^)]+\)`)

func pdfToMarkdown(contents []byte) (string, error) {
	doc, err := fitz.NewFromMemory(contents)
	if err != nil {
		return "", fmt.Errorf("error opening pdf document: %w", err)
	}
	defer doc.Close()

	converter := md.NewConverter("", true, nil)

	var out strings.Builder
	for i := 0; i < doc.NumPage(); i++ {
		html, err := doc.HTML(i, true)
		if err != nil {
			return "", fmt.Errorf("error reading pdf page %d: %w", i, err)
		}

		text, err := converter.ConvertString(html)
		if err != nil {
			return "", fmt.Errorf("error converting pdf page %d: %w", i, err)
		}

		// Inline images only inflate the prompt.
		out.WriteString(embeddedImages.ReplaceAllString(text, ""))
		out.WriteString("\n\n")
	}

	return out.String(), nil
}

func (e *Engine) resolveDocument(ctx context.Context, req api.SummarizeRequest) (string, error) {
	switch {
	case req.Text != nil && req.Url != nil:
		return "", validationErrorf("only one of text or url may be given")
	case req.Text != nil:
		return *req.Text, nil
	case req.Url != nil:
		if e.fetcher == nil {
			return "", validationErrorf("summarizing by url is not enabled")
		}
		text, err := e.fetcher.Fetch(ctx, *req.Url)
		if err != nil {
			slog.Error("error fetching document for summarization", "url", *req.Url, "error", err)
			return "", backendError(err)
		}
		return text, nil
	default:
		return "", validationErrorf("one of text or url is required")
	}
}
