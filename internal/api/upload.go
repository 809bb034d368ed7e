package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"courtiq/internal/model"
)

// ProgressFunc receives the fractional upload completion in [0,1].
// Invocations are monotonically non-decreasing.
type ProgressFunc func(fraction float64)

// analyzeResponse mirrors POST /analyze.
type analyzeResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

// Analyze uploads the file as a multipart body to the submission endpoint
// and returns the job handle. onProgress, when non-nil, tracks bytes sent.
func (c *Client) Analyze(ctx context.Context, file model.MediaFile, onProgress ProgressFunc) (model.JobHandle, error) {
	if file.Path == "" {
		return model.JobHandle{}, model.NewError(model.ErrClientSetup, "no video file selected")
	}
	f, err := os.Open(file.Path)
	if err != nil {
		return model.JobHandle{}, model.NewError(model.ErrClientSetup, fmt.Sprintf("cannot open %q: %v", file.Path, err))
	}
	defer f.Close()

	body, contentType := multipartBody(f, file, onProgress)
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/analyze"), body)
	if err != nil {
		return model.JobHandle{}, model.NewError(model.ErrClientSetup, fmt.Sprintf("building request: %v", err))
	}
	req.Header.Set("Content-Type", contentType)

	log.Debug().Str("file", file.Name).Int64("bytes", file.SizeBytes).Msg("uploading video")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return model.JobHandle{}, model.NewError(model.ErrNetworkUnreachable,
			fmt.Sprintf("no response from server: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.JobHandle{}, classifyResponse(resp)
	}

	var ar analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return model.JobHandle{}, model.NewError(model.ErrServerFailure,
			fmt.Sprintf("malformed response from server: %v", err))
	}
	if ar.TaskID == "" {
		return model.JobHandle{}, model.NewError(model.ErrServerFailure, "no task ID received from server")
	}

	log.Debug().Str("task_id", ar.TaskID).Msg("upload accepted")
	return model.JobHandle{TaskID: ar.TaskID}, nil
}

// multipartBody streams the file through a multipart writer. The returned
// reader produces the whole request body; file bytes pass through a counter
// that drives onProgress.
func multipartBody(f io.Reader, file model.MediaFile, onProgress ProgressFunc) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreatePart(videoPartHeader(file))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		src := io.Reader(f)
		if onProgress != nil {
			src = &progressReader{r: f, total: file.SizeBytes, fn: onProgress}
		}
		if _, err := io.Copy(part, src); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.Close(); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.Close()
	}()

	return pr, mw.FormDataContentType()
}

// videoPartHeader declares the form field the service expects, carrying the
// file's container type rather than application/octet-stream.
func videoPartHeader(file model.MediaFile) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="video"; filename="%s"`, escapeQuotes(file.Name)))
	contentType := file.MIMEType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)
	return h
}

func escapeQuotes(s string) string {
	return strings.NewReplacer("\\", "\\\\", `"`, "\\\"").Replace(s)
}

// progressReader counts bytes read from the underlying file and reports the
// fraction of the total. Fractions never decrease and never exceed 1.
type progressReader struct {
	r     io.Reader
	total int64
	sent  int64
	last  float64
	fn    ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		frac := 1.0
		if p.total > 0 {
			frac = float64(p.sent) / float64(p.total)
			if frac > 1 {
				frac = 1
			}
		}
		if frac > p.last {
			p.last = frac
			p.fn(frac)
		}
	}
	return n, err
}
