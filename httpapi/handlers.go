// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/poiesic/refind/core"
	"github.com/poiesic/refind/storage"
)

// RerankRequest is the body of POST /rerank.
type RerankRequest struct {
	Query      string           `json:"query"`
	Candidates []core.Candidate `json:"candidates"`
}

// handleRerank scores and orders caller-supplied candidates.
func (s *Server) handleRerank(w http.ResponseWriter, r *http.Request) {
	var req RerankRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := s.pipeline.Rerank(r.Context(), req.Query, req.Candidates)
	if err != nil {
		if isValidationError(err) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("rerank failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "rerank failed")
		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

// SearchRequest is the body of POST /search.
// Lat and Lon are optional; when both are present, stored items with a
// location get a distance signal in rule scoring.
type SearchRequest struct {
	Query    string   `json:"query"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	Category string   `json:"category,omitempty"`
}

// handleSearch ranks the stored found items against the query.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		items []*core.FoundItem
		err   error
	)
	if req.Category != "" {
		items, err = s.items.ListItemsByCategory(r.Context(), req.Category)
	} else {
		items, err = s.items.ListItems(r.Context())
	}
	if err != nil {
		s.logger.Error("failed to load items", "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load items")
		return
	}

	now := time.Now().UTC()
	candidates := make([]core.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, s.toCandidate(item, req.Lat, req.Lon, now))
	}

	results, err := s.pipeline.Rerank(r.Context(), req.Query, candidates)
	if err != nil {
		if isValidationError(err) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("search rerank failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	s.writeJSON(w, http.StatusOK, results)
}

// toCandidate builds the request-scoped candidate view of a stored item.
func (s *Server) toCandidate(item *core.FoundItem, lat, lon *float64, now time.Time) core.Candidate {
	c := core.Candidate{
		ItemId:       int64(item.Id),
		Name:         item.Name,
		Category:     item.Category,
		Brand:        item.Brand,
		Color:        item.Color,
		StoredPlace:  item.StoredPlace,
		FeaturesText: item.FeaturesText,
	}

	if lat != nil && lon != nil && item.HasLocation {
		d := haversineKm(*lat, *lon, item.Lat, item.Lon)
		c.DistanceKm = &d
	}
	if !item.FoundAt.IsZero() {
		mins := now.Sub(item.FoundAt).Minutes()
		if mins < 0 {
			mins = 0
		}
		c.MinutesSinceFound = &mins
	}
	if !item.InsertedAt.IsZero() {
		created := item.InsertedAt
		c.CreatedAt = &created
	}
	return c
}

// ItemPayload is the wire form of a found item on the items endpoints.
type ItemPayload struct {
	Id           uint64     `json:"id,omitempty"`
	Name         string     `json:"name"`
	Category     string     `json:"category,omitempty"`
	Brand        string     `json:"brand,omitempty"`
	Color        string     `json:"color,omitempty"`
	StoredPlace  string     `json:"stored_place,omitempty"`
	FeaturesText string     `json:"features_text,omitempty"`
	Lat          *float64   `json:"lat,omitempty"`
	Lon          *float64   `json:"lon,omitempty"`
	FoundAt      *time.Time `json:"found_at,omitempty"`
}

// AddItemsRequest is the body of POST /items.
type AddItemsRequest struct {
	Items []ItemPayload `json:"items"`
}

// handleAddItems stores new found items.
func (s *Server) handleAddItems(w http.ResponseWriter, r *http.Request) {
	var req AddItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Items) == 0 {
		s.writeError(w, http.StatusBadRequest, "no items provided")
		return
	}

	items := make([]*core.FoundItem, 0, len(req.Items))
	for _, payload := range req.Items {
		item := payloadToItem(payload)
		if err := core.ValidateFoundItem(item); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		items = append(items, item)
	}

	stored, err := s.items.AddItems(r.Context(), items...)
	if err != nil {
		s.logger.Error("failed to store items", "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to store items")
		return
	}

	payloads := make([]ItemPayload, len(stored))
	for i, item := range stored {
		payloads[i] = itemToPayload(item)
	}
	s.writeJSON(w, http.StatusCreated, payloads)
}

// handleListItems returns all stored found items.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.ListItems(r.Context())
	if err != nil {
		s.logger.Error("failed to list items", "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	payloads := make([]ItemPayload, len(items))
	for i, item := range items {
		payloads[i] = itemToPayload(item)
	}
	s.writeJSON(w, http.StatusOK, payloads)
}

// handleGetItem returns a single stored item by id.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := s.items.GetItem(r.Context(), core.ID(id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "item not found")
			return
		}
		s.logger.Error("failed to get item", "id", id, "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get item")
		return
	}

	s.writeJSON(w, http.StatusOK, itemToPayload(item))
}

// handleDeleteItem removes a stored item by id.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := s.items.DeleteItems(r.Context(), core.ID(id)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "item not found")
			return
		}
		s.logger.Error("failed to delete item", "id", id, "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleHealthz is the liveness probe.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// payloadToItem converts the wire form to the storage record.
func payloadToItem(p ItemPayload) *core.FoundItem {
	item := &core.FoundItem{
		Id:           core.ID(p.Id),
		Name:         p.Name,
		Category:     p.Category,
		Brand:        p.Brand,
		Color:        p.Color,
		StoredPlace:  p.StoredPlace,
		FeaturesText: p.FeaturesText,
	}
	if p.Lat != nil && p.Lon != nil {
		item.Lat = *p.Lat
		item.Lon = *p.Lon
		item.HasLocation = true
	}
	if p.FoundAt != nil {
		item.FoundAt = p.FoundAt.UTC()
	}
	return item
}

// itemToPayload converts a storage record to the wire form.
func itemToPayload(item *core.FoundItem) ItemPayload {
	p := ItemPayload{
		Id:           uint64(item.Id),
		Name:         item.Name,
		Category:     item.Category,
		Brand:        item.Brand,
		Color:        item.Color,
		StoredPlace:  item.StoredPlace,
		FeaturesText: item.FeaturesText,
	}
	if item.HasLocation {
		lat, lon := item.Lat, item.Lon
		p.Lat = &lat
		p.Lon = &lon
	}
	if !item.FoundAt.IsZero() {
		found := item.FoundAt
		p.FoundAt = &found
	}
	return p
}
