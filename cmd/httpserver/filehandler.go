package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/SUPERKISA8BIIT/KSiS-5/internal/headers"
	"github.com/SUPERKISA8BIIT/KSiS-5/internal/httperr"
	"github.com/SUPERKISA8BIIT/KSiS-5/internal/request"
	"github.com/SUPERKISA8BIIT/KSiS-5/internal/response"
)

// fileHandler serves a directory tree over the framework: download and
// upload files, list directories as JSON, delete and copy paths. All paths
// are resolved relative to root.
type fileHandler struct {
	root string
}

type treeNode struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	Children []treeNode `json:"children,omitempty"`
}

func (h *fileHandler) ServeHTTP(req *request.Request) (*response.Response, error) {
	if req.Path() == "/favicon.ico" {
		return &response.Response{Status: 404, Reason: "Not Found"}, nil
	}

	path := h.resolve(req.Path())

	switch req.Method {
	case "GET":
		return h.get(path)
	case "PUT":
		return h.put(req, path)
	case "HEAD":
		return h.head(path)
	case "DELETE":
		return h.delete(path)
	case "COPY":
		return h.copy(req, path)
	default:
		return nil, httperr.New(404, "Not found")
	}
}

// resolve joins a request path onto the serve root. The path is rooted and
// cleaned first, so ".." segments cannot escape the root.
func (h *fileHandler) resolve(p string) string {
	return filepath.Join(h.root, filepath.FromSlash(path.Clean("/"+p)))
}

func (h *fileHandler) get(path string) (*response.Response, error) {
	info, err := os.Stat(path)
	if err != nil {
		return textResponse(404, "No such file", "No such file"), nil
	}

	if info.IsDir() {
		tree, err := dirTree(path)
		if err != nil {
			return nil, err
		}
		body, err := json.MarshalIndent(tree, "", "    ")
		if err != nil {
			return nil, err
		}
		return &response.Response{
			Status: 200,
			Reason: "OK",
			Headers: []headers.Field{
				{Name: "Content-Type", Value: "application/json; charset=utf-8"},
				{Name: "Content-Length", Value: strconv.Itoa(len(body))},
			},
			Body: body,
		}, nil
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &response.Response{
		Status: 200,
		Reason: "OK",
		Headers: []headers.Field{
			{Name: "Content-Type", Value: "application/octet-stream"},
			{Name: "Content-Disposition", Value: fmt.Sprintf("attachment; filename=%q", filepath.Base(path))},
			{Name: "Content-Length", Value: strconv.Itoa(len(body))},
		},
		Body: body,
	}, nil
}

func (h *fileHandler) put(req *request.Request, path string) (*response.Response, error) {
	body, err := req.Body()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return nil, err
	}
	return &response.Response{Status: 200, Reason: "OK"}, nil
}

func (h *fileHandler) head(path string) (*response.Response, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return &response.Response{Status: 400, Reason: "Not a file"}, nil
	}

	return &response.Response{
		Status: 200,
		Reason: "OK",
		Headers: []headers.Field{
			{Name: "Content-Length", Value: strconv.FormatInt(info.Size(), 10)},
			{Name: "Last-Modified", Value: info.ModTime().Format(time.ANSIC)},
			{Name: "File-Name", Value: filepath.Base(path)},
		},
	}, nil
}

func (h *fileHandler) delete(path string) (*response.Response, error) {
	info, err := os.Stat(path)
	if err != nil {
		return textResponse(404, "No such file/folder", "No such file/folder"), nil
	}

	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return nil, err
	}
	return &response.Response{Status: 200, Reason: "Ok"}, nil
}

func (h *fileHandler) copy(req *request.Request, path string) (*response.Response, error) {
	src := req.Headers.Get("X-Copy-From")
	if src == "" {
		return nil, httperr.New(400, "X-Copy-From header is missing")
	}

	in, err := os.Open(h.resolve(src))
	if err != nil {
		return textResponse(404, "No such file", "No such file"), nil
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	out, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return nil, err
	}
	return &response.Response{Status: 200, Reason: "Ok"}, nil
}

// dirTree builds the recursive listing of a directory. Dotfiles are
// skipped.
func dirTree(path string) (treeNode, error) {
	node := treeNode{Name: filepath.Base(path), Type: "directory"}

	entries, err := os.ReadDir(path)
	if err != nil {
		return node, err
	}

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if e.IsDir() {
			child, err := dirTree(filepath.Join(path, e.Name()))
			if err != nil {
				return node, err
			}
			node.Children = append(node.Children, child)
		} else {
			node.Children = append(node.Children, treeNode{Name: e.Name(), Type: "file"})
		}
	}
	return node, nil
}

func textResponse(status int, reason, body string) *response.Response {
	b := []byte(body)
	return &response.Response{
		Status: status,
		Reason: reason,
		Headers: []headers.Field{
			{Name: "Content-Length", Value: strconv.Itoa(len(b))},
		},
		Body: b,
	}
}
