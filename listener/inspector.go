package listener

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/0xalexb/hjarta-config/config"
	jsonparser "github.com/0xalexb/hjarta-config/config/parser/json"
	xmlparser "github.com/0xalexb/hjarta-config/config/parser/xml"
	yamlparser "github.com/0xalexb/hjarta-config/config/parser/yaml"
	"github.com/0xalexb/hjarta-config/logging"
	"github.com/goccy/go-json"
)

// Response formats of the query endpoint.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatXML  = "xml"
)

type encoder struct {
	contentType string
	encode      func(config.Node) ([]byte, error)
}

var encoders = map[string]encoder{
	FormatJSON: {contentType: "application/json", encode: jsonparser.EncodeNode},
	FormatYAML: {contentType: "application/yaml", encode: yamlparser.EncodeNode},
	FormatXML:  {contentType: "application/xml", encode: xmlparser.EncodeNode},
}

// Inspector answers read-only queries against a configuration:
//
//	GET {prefix}?path=/app/db&format=yaml   the node at path, 404 when Find returns nil
//	GET {prefix}healthz                     configuration name, version and state
//
// Every response goes through Instrument with the listener Config.
type Inspector struct {
	cfg     *config.Configuration
	mux     *http.ServeMux
	handler http.Handler
	logger  *slog.Logger
}

// NewInspector returns the inspector handler for cfg, mounted under listenerCfg.Prefix
// and limited by its timeout, size, rate and origin settings.
func NewInspector(cfg *config.Configuration, listenerCfg Config) (*Inspector, error) {
	if cfg == nil {
		return nil, ErrNilConfiguration
	}

	listenerCfg.SetDefaults()

	err := listenerCfg.Validate()
	if err != nil {
		return nil, err
	}

	prefix := listenerCfg.Prefix

	inspector := &Inspector{
		cfg:     cfg,
		mux:     http.NewServeMux(),
		handler: nil,
		logger:  logging.WithComponent(slog.Default(), "inspector"),
	}

	inspector.mux.HandleFunc("GET "+prefix+"{$}", inspector.query)
	inspector.mux.HandleFunc("GET "+prefix+"healthz", inspector.health)
	inspector.handler = Instrument(inspector.logger, listenerCfg, inspector.mux)

	return inspector, nil
}

// Describe names the served configuration for the listener logs.
func (i *Inspector) Describe() []slog.Attr {
	attrs := []slog.Attr{slog.String("location", i.cfg.Location())}

	if i.cfg.Header != nil {
		attrs = append(attrs,
			slog.String("configuration", i.cfg.Header.Name),
			slog.String("group", i.cfg.Header.ApplicationGroup),
			slog.String("application", i.cfg.Header.ApplicationName),
			slog.String("version", i.cfg.Header.Version),
		)
	}

	return attrs
}

// ServeHTTP implements http.Handler.
func (i *Inspector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	i.handler.ServeHTTP(w, r)
}

func (i *Inspector) query(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	format := strings.ToLower(r.URL.Query().Get("format"))

	if format == "" {
		format = FormatJSON
	}

	enc, ok := encoders[format]
	if !ok {
		i.writeError(w, http.StatusBadRequest, "unsupported format", format)

		return
	}

	var node config.Node
	if strings.Trim(path, "/ ") == "" {
		node = asNode(i.cfg.Root())
	} else {
		node = i.cfg.Find(path)
	}

	if node == nil {
		i.writeError(w, http.StatusNotFound, "not found", path)

		return
	}

	body, err := enc.encode(node)
	if err != nil {
		i.logger.Error("encoding node", slog.String("path", path), slog.String("error", err.Error()))
		i.writeError(w, http.StatusInternalServerError, "encoding failed", path)

		return
	}

	w.Header().Set("Content-Type", enc.contentType)
	_, _ = w.Write(body)
}

func (i *Inspector) health(w http.ResponseWriter, _ *http.Request) {
	status := map[string]string{
		"status":   "ok",
		"state":    i.cfg.State().String(),
		"location": i.cfg.Location(),
	}

	if i.cfg.Header != nil {
		status["name"] = i.cfg.Header.Name
		status["version"] = i.cfg.Header.Version
	}

	code := http.StatusOK
	if i.cfg.State() == config.StateError {
		status["status"] = "error"
		code = http.StatusServiceUnavailable
	}

	i.writeJSON(w, code, status)
}

func (i *Inspector) writeError(w http.ResponseWriter, code int, message, subject string) {
	i.writeJSON(w, code, map[string]string{"error": message, "subject": subject})
}

func (i *Inspector) writeJSON(w http.ResponseWriter, code int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		i.logger.Error("encoding response", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

func asNode(root *config.PathNode) config.Node {
	if root == nil {
		return nil
	}

	return root
}
