package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Spok95/obraz-stock/internal/domain/materials"
	"github.com/Spok95/obraz-stock/internal/export"
)

type materialDTO struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	TypeID             int64  `json:"type_id"`
	TypeName           string `json:"type_name"`
	UnitPrice          string `json:"unit_price"`
	QuantityInStock    string `json:"quantity_in_stock"`
	MinQuantity        string `json:"min_quantity"`
	QuantityPerPackage string `json:"quantity_per_package"`
	Unit               string `json:"unit"`
	BelowMinimum       bool   `json:"below_minimum"`
}

func toMaterialDTO(m materials.Material) materialDTO {
	return materialDTO{
		ID:                 m.ID,
		Name:               m.Name,
		TypeID:             m.TypeID,
		TypeName:           m.TypeName,
		UnitPrice:          materials.FormatAmount(m.UnitPrice),
		QuantityInStock:    materials.FormatAmount(m.QuantityInStock),
		MinQuantity:        materials.FormatAmount(m.MinQuantity),
		QuantityPerPackage: materials.FormatAmount(m.QuantityPerPackage),
		Unit:               m.Unit,
		BelowMinimum:       m.BelowMinimum(),
	}
}

type typeDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type usageRowDTO struct {
	ProductName      string `json:"product_name"`
	RequiredQuantity string `json:"required_quantity"`
}

type usageDTO struct {
	MaterialID int64         `json:"material_id"`
	Rows       []usageRowDTO `json:"rows"`
	Total      string        `json:"total"`
}

// formValue принимает и строку, и число: "12,5", "12.5", 12.5.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*v = formValue(n.String())
	return nil
}

type materialRequest struct {
	Name               formValue `json:"name"`
	TypeID             formValue `json:"type_id"`
	UnitPrice          formValue `json:"unit_price"`
	QuantityInStock    formValue `json:"quantity_in_stock"`
	MinQuantity        formValue `json:"min_quantity"`
	QuantityPerPackage formValue `json:"quantity_per_package"`
	Unit               formValue `json:"unit"`
}

func (req materialRequest) raw() materials.RawInput {
	return materials.RawInput{
		Name:               string(req.Name),
		TypeID:             string(req.TypeID),
		UnitPrice:          string(req.UnitPrice),
		QuantityInStock:    string(req.QuantityInStock),
		MinQuantity:        string(req.MinQuantity),
		QuantityPerPackage: string(req.QuantityPerPackage),
		Unit:               string(req.Unit),
	}
}

/* Reads */

func (h *Handlers) listMaterials(w http.ResponseWriter, r *http.Request) {
	items := h.store.List(r.Context())
	out := make([]materialDTO, 0, len(items))
	for _, m := range items {
		out = append(out, toMaterialDTO(m))
	}
	jsonOK(w, out)
}

func (h *Handlers) listTypes(w http.ResponseWriter, r *http.Request) {
	types := h.store.ListTypes(r.Context())
	out := make([]typeDTO, 0, len(types))
	for _, t := range types {
		out = append(out, typeDTO{ID: t.ID, Name: t.Name})
	}
	jsonOK(w, out)
}

func (h *Handlers) materialUsage(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(w, r)
	if !ok {
		return
	}
	rep := materials.NewUsageReport(h.store.UsedIn(r.Context(), id))
	out := usageDTO{MaterialID: id, Rows: make([]usageRowDTO, 0, len(rep.Rows)), Total: rep.TotalString()}
	for _, u := range rep.Rows {
		out.Rows = append(out.Rows, usageRowDTO{
			ProductName:      u.ProductName,
			RequiredQuantity: materials.FormatAmount(u.RequiredQuantity),
		})
	}
	jsonOK(w, out)
}

/* Writes */

func (h *Handlers) createMaterial(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	id, err := h.store.Add(r.Context(), in)
	if err != nil {
		h.storeError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/materials/%d", id))
	jsonStatus(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *Handlers) updateMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(w, r)
	if !ok {
		return
	}
	in, ok := h.decodeInput(w, r)
	if !ok {
		return
	}
	if err := h.store.Update(r.Context(), id, in); err != nil {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) deleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(w, r)
	if !ok {
		return
	}
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/* Excel */

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handlers) exportMaterials(w http.ResponseWriter, r *http.Request) {
	buf := &bytes.Buffer{}
	if err := export.Materials(buf, h.store.List(r.Context())); err != nil {
		h.log.Error("export materials failed", "err", err)
		jsonError(w, "Ошибка формирования файла", http.StatusInternalServerError)
		return
	}
	sendFile(w, export.FileName("materials", time.Now()), buf)
}

func (h *Handlers) exportUsage(w http.ResponseWriter, r *http.Request) {
	id, ok := materialID(w, r)
	if !ok {
		return
	}
	name := fmt.Sprintf("ID:%d", id)
	if m, found := materials.Find(h.store.List(r.Context()), id); found {
		name = m.Name
	}
	rep := materials.NewUsageReport(h.store.UsedIn(r.Context(), id))

	buf := &bytes.Buffer{}
	if err := export.Usage(buf, name, rep); err != nil {
		h.log.Error("export usage failed", "material_id", id, "err", err)
		jsonError(w, "Ошибка формирования файла", http.StatusInternalServerError)
		return
	}
	sendFile(w, export.FileName(fmt.Sprintf("usage_%d", id), time.Now()), buf)
}

/* helpers */

// maxFormBytes — одна форма материала; всё, что больше, не читаем.
const maxFormBytes = 8 << 10

func (h *Handlers) decodeInput(w http.ResponseWriter, r *http.Request) (materials.Input, bool) {
	var req materialRequest
	body := http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return materials.Input{}, false
		}
		jsonError(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return materials.Input{}, false
	}
	in, err := materials.ParseInput(req.raw())
	if err != nil {
		var verr materials.ValidationErrors
		if errors.As(err, &verr) {
			fields := make(map[string]string, len(verr))
			for _, e := range verr {
				fields[e.Field] = e.Reason
			}
			jsonStatus(w, http.StatusBadRequest, map[string]any{"error": err.Error(), "fields": fields})
			return materials.Input{}, false
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return materials.Input{}, false
	}
	return in, true
}

func (h *Handlers) storeError(w http.ResponseWriter, err error) {
	h.log.Error("store write failed", "err", err)
	status := http.StatusInternalServerError
	if errors.Is(err, materials.ErrMaterialInUse) || errors.Is(err, materials.ErrUnknownType) {
		status = http.StatusConflict
	}
	jsonError(w, "Не удалось сохранить материал: "+err.Error(), status)
}

func materialID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func jsonOK(w http.ResponseWriter, v any) { jsonStatus(w, http.StatusOK, v) }

func jsonStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	jsonStatus(w, status, map[string]string{"error": msg})
}

func sendFile(w http.ResponseWriter, name string, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(buf.Bytes())
}
