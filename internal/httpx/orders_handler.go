package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ordertrackhq/order-tracker/internal/auth"
	"github.com/ordertrackhq/order-tracker/internal/notify"
	"github.com/ordertrackhq/order-tracker/internal/orders"
)

type OrdersHandler struct {
	Store    orders.Store
	Notifier notify.Notifier
}

type CreateOrderResp struct {
	OK      bool   `json:"ok"`
	OrderID string `json:"orderId"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/order", h.createOrder)
	r.Get("/order", h.listOrders)
	r.Get("/order/{id}", h.getOrder)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.Subject(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized user"})
		return
	}

	payload, err := decodeBody(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	o := orders.New(uid, stringify(payload["name"]), stringify(payload["product"]),
		stringify(payload["email"]), time.Now())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Put(ctx, o); err != nil {
		slog.Error("persist order failed", "order_id", o.OrderID, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to persist order"})
		return
	}

	// best-effort; the HTTP result never depends on this
	h.Notifier.OrderCreated(r.Context(), notify.Confirmation{
		OrderID: o.OrderID,
		Email:   o.Email,
		Name:    o.Name,
		Product: o.Product,
	})

	writeJSON(w, http.StatusOK, CreateOrderResp{OK: true, OrderID: o.OrderID})
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.Subject(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized user"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	list, err := h.Store.QueryByOwner(ctx, uid)
	if err != nil {
		slog.Error("list orders failed", "user_id", uid, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, map[string][]orders.Order{"orders": list})
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.Subject(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized user"})
		return
	}
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Store.Get(ctx, orderID)
	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Order not found"})
		return
	case err != nil:
		slog.Error("get order failed", "order_id", orderID, "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to fetch order"})
		return
	}
	if o.UserID != uid {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Not authorized to view this order"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]orders.Order{"order": o})
}

// decodeBody parses the request body as a JSON object. An empty body reads as
// an empty object; anything unparsable, or JSON that is not an object, is an
// input error.
func decodeBody(body io.Reader) (map[string]any, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return map[string]any{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// stringify coerces a decoded JSON value to its string form: strings pass
// through, scalars keep their literal representation, anything structured
// falls back to its JSON encoding. Absent fields become "".
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
