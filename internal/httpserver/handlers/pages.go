package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/MrSnakeDoc/keeplater/internal/logger"
)

//go:embed templates/share.html
var templatesFS embed.FS

var shareTemplate = template.Must(template.ParseFS(templatesFS, "templates/share.html"))

type sharePage struct {
	Heading string
	Message string
	URL     string
}

var (
	pageNoURL = sharePage{
		Heading: "Error",
		Message: "No valid URL found",
	}
	pageSaved = sharePage{
		Heading: "Saved",
		Message: "The link was added to your list.",
	}
	pageAlreadySaved = sharePage{
		Heading: "Already Saved",
		Message: "This link is already in your list.",
	}
)

func (p sharePage) withURL(url string) sharePage {
	p.URL = url
	return p
}

// writePage renders into a buffer first so a template error can still become a 500.
func writePage(w http.ResponseWriter, status int, page sharePage, log logger.Logger) {
	var buf bytes.Buffer
	if err := shareTemplate.Execute(&buf, page); err != nil {
		log.Error("failed to render page", logger.Error(err))
		writeProblem(w, http.StatusInternalServerError, "", log)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Debug("failed to write response", logger.Error(err))
	}
}
