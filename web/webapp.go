/*
Functions for creating and servicing a web interface.
*/
package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/daedaleanai/svcnames/config"
	"github.com/daedaleanai/svcnames/report"
	"github.com/daedaleanai/svcnames/services"
)

// Handler serves the report and lookups for a single table.
type Handler struct {
	table *services.Table
	cfg   config.Config
}

// NewHandler returns a handler serving the given table, using cfg for the report settings.
func NewHandler(table *services.Table, cfg config.Config) *Handler {
	return &Handler{table: table, cfg: cfg}
}

// Serve starts the web server listening on the supplied address:port
func Serve(table *services.Table, cfg config.Config, addr string) error {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	fmt.Printf("Server started on http://%s\n", addr)
	return http.ListenAndServe(addr, NewHandler(table, cfg))
}

var errorTemplate = template.Must(template.New("error").Parse(
	`<html>OOPS!
<pre>{{.Error}}</pre>`))

type lookupResponse struct {
	Key         string `json:"key"`
	DisplayName string `json:"displayName,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ServeHTTP responds to requests on the web server
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Print(r.Method, r.URL)
	var err error
	switch r.Method {
	case "GET":
		err = h.get(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		err = fmt.Errorf("Unknown HTTP method: %s", r.Method)
	}
	if err != nil {
		_ = errorTemplate.Execute(w, err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) error {
	reqPath := r.URL.Path

	switch {
	case reqPath == "/":
		filter, err := services.CreateFilter(r.FormValue("key"), r.FormValue("name"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return errors.Wrap(err, "failed to create filter")
		}
		order, err := services.ParseSortOrder(r.FormValue("sort"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return err
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		return report.Services(h.table, w, report.Options{
			Style:  h.cfg.ReportStyle,
			Filter: filter,
			Order:  order,
			Header: h.cfg.Header,
		})

	case reqPath == "/services.json":
		w.Header().Set("Content-Type", "application/json")
		return services.Export(w, h.table, services.ExportJSON)

	case reqPath == "/services.yaml":
		w.Header().Set("Content-Type", "application/yaml")
		return services.Export(w, h.table, services.ExportYAML)

	case strings.HasPrefix(reqPath, "/lookup/"):
		key := strings.TrimPrefix(reqPath, "/lookup/")
		resp := lookupResponse{Key: key}
		name, err := h.table.Lookup(key)
		w.Header().Set("Content-Type", "application/json")
		if err != nil {
			if !services.IsNotFound(err) {
				return err
			}
			w.WriteHeader(http.StatusNotFound)
			resp.Error = err.Error()
		} else {
			resp.DisplayName = name
		}
		return json.NewEncoder(w).Encode(resp)
	}

	w.WriteHeader(http.StatusNotFound)
	return fmt.Errorf("Unknown page: %s", reqPath)
}
