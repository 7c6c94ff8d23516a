package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ucsb-cs148-w25/pj05-shelfshare-sub000/internal/domain"
)

func (s *Server) registerShelfRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "placeOnShelf",
		Method:      http.MethodPut,
		Path:        "/api/v1/shelves/items/{itemId}",
		Summary:     "Place item on shelf",
		Description: "Adds the item to a shelf, or moves it there if it is already on another shelf",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handlePlaceOnShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "moveShelf",
		Method:      http.MethodPost,
		Path:        "/api/v1/shelves/items/{itemId}/move",
		Summary:     "Move item to another shelf",
		Description: "Moves an item that is already shelved; fails with NOT_FOUND otherwise",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMoveShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromShelf",
		Method:      http.MethodDelete,
		Path:        "/api/v1/shelves/items/{itemId}",
		Summary:     "Remove item from shelves",
		Description: "Deletes the item's shelf placement. Favorites are unaffected",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPlacement",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves/items/{itemId}",
		Summary:     "Get item placement",
		Description: "Returns the shelf entry for the item",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPlacement)

	huma.Register(s.api, huma.Operation{
		OperationID: "listShelves",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves",
		Summary:     "List all shelves",
		Description: "Returns every shelf of the caller, newest entries first",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListShelves)

	huma.Register(s.api, huma.Operation{
		OperationID: "listShelf",
		Method:      http.MethodGet,
		Path:        "/api/v1/shelves/{shelf}",
		Summary:     "List one shelf",
		Description: "Returns the entries of a single shelf, newest first",
		Tags:        []string{"Shelves"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListShelf)

	huma.Register(s.api, huma.Operation{
		OperationID: "toggleFavorite",
		Method:      http.MethodPost,
		Path:        "/api/v1/favorites/{itemId}/toggle",
		Summary:     "Toggle favorite",
		Description: "Flips the favorite flag of an item and returns the new state",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleFavorite)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFavorites",
		Method:      http.MethodGet,
		Path:        "/api/v1/favorites",
		Summary:     "List favorites",
		Description: "Returns the caller's favorites, newest first",
		Tags:        []string{"Favorites"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFavorites)
}

// === DTOs ===

// ItemBody is the catalog snapshot a client sends with shelf commands.
type ItemBody struct {
	Kind     string `json:"kind,omitempty" enum:"book,movie" doc:"Catalog kind (default book)"`
	Title    string `json:"title" doc:"Title at the time of the action"`
	Creator  string `json:"creator,omitempty" doc:"Author or director"`
	CoverURL string `json:"cover_url,omitempty" doc:"Cover image URL"`
}

func (b ItemBody) metadata(itemID string) domain.ItemMetadata {
	return domain.ItemMetadata{
		ItemID:   itemID,
		Kind:     domain.ItemKind(b.Kind),
		Title:    b.Title,
		Creator:  b.Creator,
		CoverURL: b.CoverURL,
	}
}

// PlaceOnShelfRequest is the request body for placing an item.
type PlaceOnShelfRequest struct {
	Shelf string   `json:"shelf" doc:"Target shelf: currently-reading, want-to-read, finished, stopped-reading"`
	Item  ItemBody `json:"item" doc:"Item metadata snapshot"`
}

// PlaceOnShelfInput wraps the place request for Huma.
type PlaceOnShelfInput struct {
	ItemID string `path:"itemId" doc:"Catalog item ID"`
	Body   PlaceOnShelfRequest
}

// MoveShelfRequest is the request body for moving an item.
type MoveShelfRequest struct {
	Shelf string `json:"shelf" doc:"Target shelf"`
}

// MoveShelfInput wraps the move request for Huma.
type MoveShelfInput struct {
	ItemID string `path:"itemId" doc:"Catalog item ID"`
	Body   MoveShelfRequest
}

// ItemPathInput identifies an item by path.
type ItemPathInput struct {
	ItemID string `path:"itemId" doc:"Catalog item ID"`
}

// ShelfEntryOutput wraps a shelf entry for Huma.
type ShelfEntryOutput struct {
	Body *domain.ShelfEntry
}

// ShelvesResponse contains every shelf of a user.
type ShelvesResponse struct {
	Shelves map[domain.ShelfType][]*domain.ShelfEntry `json:"shelves" doc:"Entries keyed by shelf"`
}

// ShelvesOutput wraps the shelves response for Huma.
type ShelvesOutput struct {
	Body ShelvesResponse
}

// ListShelfInput selects a shelf.
type ListShelfInput struct {
	Shelf string `path:"shelf" doc:"Shelf name"`
}

// ShelfEntriesResponse contains the entries of one shelf.
type ShelfEntriesResponse struct {
	Shelf   domain.ShelfType     `json:"shelf" doc:"Shelf name"`
	Entries []*domain.ShelfEntry `json:"entries" doc:"Entries, newest first"`
}

// ShelfEntriesOutput wraps a shelf listing for Huma.
type ShelfEntriesOutput struct {
	Body ShelfEntriesResponse
}

// ToggleFavoriteInput wraps the toggle request for Huma.
type ToggleFavoriteInput struct {
	ItemID string `path:"itemId" doc:"Catalog item ID"`
	Body   ItemBody
}

// FavoriteStateResponse reports an item's favorite state after a toggle.
type FavoriteStateResponse struct {
	ItemID   string `json:"item_id" doc:"Catalog item ID"`
	Favorite bool   `json:"favorite" doc:"Whether the item is now a favorite"`
}

// FavoriteStateOutput wraps the favorite state for Huma.
type FavoriteStateOutput struct {
	Body FavoriteStateResponse
}

// FavoritesResponse lists favorites.
type FavoritesResponse struct {
	Favorites []*domain.FavoriteEntry `json:"favorites" doc:"Favorites, newest first"`
}

// FavoritesOutput wraps the favorites list for Huma.
type FavoritesOutput struct {
	Body FavoritesResponse
}

// === Handlers ===

func (s *Server) handlePlaceOnShelf(ctx context.Context, input *PlaceOnShelfInput) (*ShelfEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Shelves.MoveOrAddToShelf(ctx, userID,
		input.Body.Item.metadata(input.ItemID), domain.ShelfType(input.Body.Shelf))
	if err != nil {
		return nil, err
	}
	return &ShelfEntryOutput{Body: entry}, nil
}

func (s *Server) handleMoveShelf(ctx context.Context, input *MoveShelfInput) (*ShelfEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Shelves.MoveShelf(ctx, userID, input.ItemID, domain.ShelfType(input.Body.Shelf))
	if err != nil {
		return nil, err
	}
	return &ShelfEntryOutput{Body: entry}, nil
}

func (s *Server) handleRemoveFromShelf(ctx context.Context, input *ItemPathInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Shelves.RemoveFromShelf(ctx, userID, input.ItemID); err != nil {
		return nil, err
	}
	return message("Removed from shelf"), nil
}

func (s *Server) handleGetPlacement(ctx context.Context, input *ItemPathInput) (*ShelfEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Shelves.GetPlacement(ctx, userID, input.ItemID)
	if err != nil {
		return nil, err
	}
	return &ShelfEntryOutput{Body: entry}, nil
}

func (s *Server) handleListShelves(ctx context.Context, _ *struct{}) (*ShelvesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	shelves, err := s.services.Shelves.ListAllShelves(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ShelvesOutput{Body: ShelvesResponse{Shelves: shelves}}, nil
}

func (s *Server) handleListShelf(ctx context.Context, input *ListShelfInput) (*ShelfEntriesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	shelf := domain.ShelfType(input.Shelf)
	entries, err := s.services.Shelves.ListShelf(ctx, userID, shelf)
	if err != nil {
		return nil, err
	}
	return &ShelfEntriesOutput{Body: ShelfEntriesResponse{Shelf: shelf, Entries: entries}}, nil
}

func (s *Server) handleToggleFavorite(ctx context.Context, input *ToggleFavoriteInput) (*FavoriteStateOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	favorite, err := s.services.Shelves.ToggleFavorite(ctx, userID, input.Body.metadata(input.ItemID))
	if err != nil {
		return nil, err
	}
	return &FavoriteStateOutput{Body: FavoriteStateResponse{ItemID: input.ItemID, Favorite: favorite}}, nil
}

func (s *Server) handleListFavorites(ctx context.Context, _ *struct{}) (*FavoritesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	favorites, err := s.services.Shelves.ListFavorites(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FavoritesOutput{Body: FavoritesResponse{Favorites: favorites}}, nil
}
