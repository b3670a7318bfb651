package client

import (
	"context"
	"log"
	"net/http"
	"sync"
)

// CartItem is one resolved cart line as served by the API.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartStore mirrors the server-side cart. Mutations take the server's
// response as the new truth; concurrent calls are not coordinated, so
// the last response to arrive wins, as in the browser store.
type CartStore struct {
	api  *Client
	auth *AuthStore

	mu    sync.Mutex
	items []CartItem
}

func NewCartStore(api *Client, auth *AuthStore) *CartStore {
	return &CartStore{api: api, auth: auth}
}

func (s *CartStore) setItems(items []CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
}

// Fetch refreshes local state from the server. On failure the cart
// falls back to empty rather than surfacing the error.
func (s *CartStore) Fetch(ctx context.Context) {
	if !s.auth.IsLoggedIn() {
		return
	}

	var items []CartItem
	if err := s.api.do(ctx, http.MethodGet, "/api/cart", nil, s.auth.Token(), nil, &items); err != nil {
		log.Printf("failed to fetch cart: %v", err)
		s.setItems(nil)
		return
	}
	s.setItems(items)
}

// Add puts quantity more of a product in the cart. Failed mutations
// keep the previous local state.
func (s *CartStore) Add(ctx context.Context, productID string, quantity int) {
	body := map[string]interface{}{"productId": productID, "quantity": quantity}

	var items []CartItem
	if err := s.api.do(ctx, http.MethodPost, "/api/cart", nil, s.auth.Token(), body, &items); err != nil {
		log.Printf("failed to add to cart: %v", err)
		return
	}
	s.setItems(items)
}

// SetQuantity sets a line's quantity exactly; below 1 it removes the
// line, matching the server's semantics.
func (s *CartStore) SetQuantity(ctx context.Context, productID string, quantity int) {
	if quantity < 1 {
		s.Remove(ctx, productID)
		return
	}
	body := map[string]interface{}{"productId": productID, "quantity": quantity}

	var items []CartItem
	if err := s.api.do(ctx, http.MethodPut, "/api/cart", nil, s.auth.Token(), body, &items); err != nil {
		log.Printf("failed to update quantity: %v", err)
		return
	}
	s.setItems(items)
}

func (s *CartStore) Remove(ctx context.Context, productID string) {
	var items []CartItem
	if err := s.api.do(ctx, http.MethodDelete, "/api/cart/"+productID, nil, s.auth.Token(), nil, &items); err != nil {
		log.Printf("failed to remove from cart: %v", err)
		return
	}
	s.setItems(items)
}

// Clear empties the cart. When the request fails local state is
// cleared anyway, as the browser store does.
func (s *CartStore) Clear(ctx context.Context) {
	var items []CartItem
	if err := s.api.do(ctx, http.MethodDelete, "/api/cart", nil, s.auth.Token(), nil, &items); err != nil {
		log.Printf("failed to clear cart: %v", err)
		s.setItems(nil)
		return
	}
	s.setItems(items)
}

// Items returns a copy of the current cart lines.
func (s *CartStore) Items() []CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Total is the derived cart value.
func (s *CartStore) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0.0
	for _, item := range s.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// TotalItems is the derived number of units across all lines.
func (s *CartStore) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}
