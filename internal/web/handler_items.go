package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/joshdoucet/snapandsave/internal/contract"
	"github.com/joshdoucet/snapandsave/internal/domain"
)

// maxImageBytes caps image uploads; anything larger is rejected before
// decoding.
const maxImageBytes = 10 << 20

// decodeFields maps a JSON body onto a partial field set, preserving the
// distinction between an absent key, an explicit null, and a value. Unknown
// keys are rejected.
func decodeFields(r io.Reader) (domain.Fields, error) {
	var f domain.Fields

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return f, fmt.Errorf("invalid JSON body: %w", err)
	}

	isNull := func(m json.RawMessage) bool { return bytes.Equal(bytes.TrimSpace(m), []byte("null")) }

	for key, val := range raw {
		switch key {
		case "name":
			if isNull(val) {
				f.SetName("")
				continue
			}
			var name string
			if err := json.Unmarshal(val, &name); err != nil {
				return f, fmt.Errorf("invalid name: %w", err)
			}
			f.SetName(name)
		case "quantity":
			if isNull(val) {
				f.SetNullQuantity()
				continue
			}
			var q int64
			if err := json.Unmarshal(val, &q); err != nil {
				return f, fmt.Errorf("invalid quantity: %w", err)
			}
			f.SetQuantity(q)
		case "price":
			if isNull(val) {
				f.SetNullPrice()
				continue
			}
			var p float64
			if err := json.Unmarshal(val, &p); err != nil {
				return f, fmt.Errorf("invalid price: %w", err)
			}
			f.SetPrice(p)
		case "supplier":
			if isNull(val) {
				f.SetSupplier("")
				continue
			}
			var s string
			if err := json.Unmarshal(val, &s); err != nil {
				return f, fmt.Errorf("invalid supplier: %w", err)
			}
			f.SetSupplier(s)
		case "image":
			if isNull(val) {
				f.SetImage(nil)
				continue
			}
			var data []byte
			if err := json.Unmarshal(val, &data); err != nil {
				return f, fmt.Errorf("invalid image: %w", err)
			}
			f.SetImage(data)
		default:
			return f, fmt.Errorf("unknown field %q", key)
		}
	}

	return f, nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid item id")
	}
	return id, nil
}

func parseOrder(r *http.Request) domain.SortOrder {
	switch r.URL.Query().Get("order") {
	case "name":
		return domain.OrderByName
	case "price":
		return domain.OrderByPrice
	default:
		return domain.OrderStorage
	}
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.service.ListItems(r.Context(), parseOrder(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if items == nil {
		items = []*domain.Item{}
	}
	writeJSON(w, http.StatusOK, contract.ContentTypeItemList, items)
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: err.Error()})
		return
	}

	item, err := s.service.CreateItem(r.Context(), fields)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", contract.ItemPath(item.ID))
	writeJSON(w, http.StatusCreated, contract.ContentTypeItem, item)
}

func (s *Server) handleBulkUpdate(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeFields(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: err.Error()})
		return
	}

	n, err := s.service.UpdateAllItems(r.Context(), fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "application/json", map[string]int64{"rows_affected": n})
}

func (s *Server) handleClearInventory(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.ClearInventory(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "application/json", map[string]int64{"rows_affected": n})
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: err.Error()})
		return
	}

	item, err := s.service.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.ContentTypeItem, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: err.Error()})
		return
	}

	fields, err := decodeFields(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: err.Error()})
		return
	}

	item, err := s.service.UpdateItem(r.Context(), id, fields)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.ContentTypeItem, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: err.Error()})
		return
	}

	if err := s.service.DeleteItem(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type quantityRequest struct {
	Quantity int64 `json:"quantity"`
}

type quantityResponse struct {
	Quantity int64 `json:"quantity"`
}

func (s *Server) handleSale(w http.ResponseWriter, r *http.Request) {
	s.handleAdjust(w, r, s.service.RecordSale)
}

func (s *Server) handleReceive(w http.ResponseWriter, r *http.Request) {
	s.handleAdjust(w, r, s.service.ReceiveShipment)
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, id, qty int64) (int64, error)) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: err.Error()})
		return
	}

	var req quantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: "invalid JSON body"})
		return
	}

	newQty, err := apply(r.Context(), id, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "application/json", quantityResponse{Quantity: newQty})
}

func (s *Server) handleDecrement(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: err.Error()})
		return
	}

	newQty, err := s.service.SellOne(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, "application/json", quantityResponse{Quantity: newQty})
}

func (s *Server) handlePutImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: err.Error()})
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: "failed to read image body"})
		return
	}
	if len(data) > maxImageBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, "application/json", errorResponse{Error: "image too large"})
		return
	}

	if err := s.service.AttachImage(r.Context(), id, data); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, "application/json", errorResponse{Error: err.Error()})
		return
	}

	item, err := s.service.GetItem(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if item.Image == nil {
		writeJSON(w, http.StatusNotFound, "application/json", errorResponse{Error: "item has no image"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(item.Image)
}

type totalResponse struct {
	Total float64 `json:"total"`
	Ready bool    `json:"ready"`
}

func (s *Server) handleTotal(w http.ResponseWriter, r *http.Request) {
	total, ready := s.service.TotalValue()
	writeJSON(w, http.StatusOK, "application/json", totalResponse{Total: total, Ready: ready})
}
