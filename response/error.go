// response/error.go

/* Package response turns the body of a rejected response into something worth logging.
The session client never hands error bodies to callers of a successful call; it reads
them only when a request ends the session (403) or when the refresh endpoint refuses to
issue a token. */
package response

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"
)

// MaxErrorBodySize bounds how much of an error body is read.
const MaxErrorBodySize = 64 << 10

// APIError is an error response from the API.
type APIError struct {
	StatusCode  int           `json:"status_code"`
	Method      string        `json:"method"`
	URL         string        `json:"url"`
	Message     string        `json:"message"`
	Errors      []ErrorDetail `json:"errors,omitempty"`
	RawResponse string        `json:"raw_response"`
}

// ErrorDetail is one entry of a JSON "errors" array.
type ErrorDetail struct {
	Code        string `json:"code,omitempty"`
	Field       string `json:"field,omitempty"`
	Description string `json:"description,omitempty"`
}

// jsonErrorBody covers the common shapes of JSON error bodies.
type jsonErrorBody struct {
	Message          string        `json:"message"`
	Error            string        `json:"error"`
	ErrorDescription string        `json:"error_description"`
	Detail           string        `json:"detail"`
	Errors           []ErrorDetail `json:"errors"`
}

func (e *APIError) Error() string {
	message := e.Message
	if message == "" {
		message = http.StatusText(e.StatusCode)
	}
	if e.Method == "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, message)
	}
	return fmt.Sprintf("api error: %s %s: status %d: %s", e.Method, e.URL, e.StatusCode, message)
}

// ParseErrorResponse reads up to MaxErrorBodySize bytes of resp.Body and extracts an
// error message according to its content type. The body is left open.
func ParseErrorResponse(resp *http.Response) *APIError {
	apiError := &APIError{StatusCode: resp.StatusCode}
	if resp.Request != nil {
		apiError.Method = resp.Request.Method
		apiError.URL = resp.Request.URL.String()
	}
	if resp.Body == nil {
		return apiError
	}

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxErrorBodySize))
	if err != nil {
		apiError.RawResponse = "failed to read response body"
		return apiError
	}
	if len(bytes.TrimSpace(bodyBytes)) == 0 {
		return apiError
	}
	apiError.RawResponse = string(bodyBytes)

	mimeType, _ := ParseContentTypeHeader(resp.Header.Get("Content-Type"))
	switch {
	case mimeType == "application/json", strings.HasSuffix(mimeType, "+json"):
		parseJSONResponse(bodyBytes, apiError)
	case mimeType == "application/xml", mimeType == "text/xml", strings.HasSuffix(mimeType, "+xml"):
		parseXMLResponse(bodyBytes, apiError)
	case mimeType == "text/html":
		parseHTMLResponse(bodyBytes, apiError)
	case mimeType == "text/plain":
		apiError.Message = strings.TrimSpace(string(bodyBytes))
	}

	return apiError
}

func parseJSONResponse(bodyBytes []byte, apiError *APIError) {
	var body jsonErrorBody
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		return
	}

	apiError.Errors = body.Errors
	for _, candidate := range []string{body.Message, body.ErrorDescription, body.Error, body.Detail} {
		if candidate != "" {
			apiError.Message = candidate
			return
		}
	}
	if len(body.Errors) > 0 {
		descriptions := make([]string, 0, len(body.Errors))
		for _, e := range body.Errors {
			if e.Description != "" {
				descriptions = append(descriptions, e.Description)
			}
		}
		apiError.Message = strings.Join(descriptions, "; ")
	}
}

// parseXMLResponse joins every non-blank text node of the document.
func parseXMLResponse(bodyBytes []byte, apiError *APIError) {
	doc, err := xmlquery.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var messages []string
	var traverse func(*xmlquery.Node)
	traverse = func(n *xmlquery.Node) {
		if n.Type == xmlquery.TextNode && strings.TrimSpace(n.Data) != "" {
			messages = append(messages, strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
		}
	}
	traverse(doc)

	apiError.Message = strings.Join(messages, "; ")
}

// parseHTMLResponse uses the page title, falling back to the text of the <p> elements.
func parseHTMLResponse(bodyBytes []byte, apiError *APIError) {
	doc, err := html.Parse(bytes.NewReader(bodyBytes))
	if err != nil {
		return
	}

	var title string
	var paragraphs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" {
					title = textContent(n)
				}
			case "p":
				if text := textContent(n); text != "" {
					paragraphs = append(paragraphs, text)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if title != "" {
		apiError.Message = title
		return
	}
	apiError.Message = strings.Join(paragraphs, "; ")
}

func textContent(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(sb.String()), " ")
}
