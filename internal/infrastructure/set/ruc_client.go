// Package set implementa la consulta de RUC contra el registro del
// contribuyente de la SET (Paraguay).
package set

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// RUCMatch resultado de la consulta al registro.
type RUCMatch struct {
	Doc    string // documento sin dígito verificador
	RUC    string
	Name   string // razón social
	Active bool
}

// RUCLookup define el puerto de salida hacia el registro nacional.
// La implementación concreta usa HTTP; para tests se puede inyectar un mock.
type RUCLookup interface {
	// LookupRUC consulta un RUC. Devuelve (nil, nil) si no existe.
	LookupRUC(ctx context.Context, ruc string) (*RUCMatch, error)
}

// HTTPClient implementa RUCLookup contra el servicio HTTP de consulta.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPClient construye el cliente con un timeout corto: la consulta corre
// dentro del flujo de cobro y ante demora se degrada al consumidor final.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// rucPayload cuerpo de respuesta del servicio de consulta.
type rucPayload struct {
	Doc         string `json:"doc"`
	RUC         string `json:"ruc"`
	RazonSocial string `json:"razonSocial"`
	Estado      string `json:"estado"` // ACTIVO, SUSPENDIDO, CANCELADO
}

// LookupRUC consulta el RUC en el registro. El servicio responde en
// ISO-8859-1 (razones sociales con acentos), por eso se transforma el cuerpo
// antes de decodificar el JSON.
func (c *HTTPClient) LookupRUC(ctx context.Context, ruc string) (*RUCMatch, error) {
	endpoint := fmt.Sprintf("%s/ruc/%s", c.baseURL, url.PathEscape(ruc))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("armar request RUC: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("consultar RUC: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("consulta RUC: status %d", resp.StatusCode)
	}

	body := transform.NewReader(resp.Body, charmap.ISO8859_1.NewDecoder())
	var payload rucPayload
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decodificar respuesta RUC: %w", err)
	}
	if payload.RUC == "" {
		return nil, nil
	}
	doc := payload.Doc
	if doc == "" {
		doc = strings.SplitN(payload.RUC, "-", 2)[0]
	}
	return &RUCMatch{
		Doc:    doc,
		RUC:    payload.RUC,
		Name:   payload.RazonSocial,
		Active: strings.EqualFold(payload.Estado, "ACTIVO"),
	}, nil
}
