package tools

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/NERVsystems/localhealth/pkg/geo"
	"github.com/NERVsystems/localhealth/pkg/geolocate"
	"github.com/NERVsystems/localhealth/pkg/session"
	"github.com/NERVsystems/localhealth/pkg/stores"
)

// FindLocationTool returns a tool definition for resolving a location.
func (r *Registry) FindLocationTool() mcp.Tool {
	return mcp.NewTool("find_location",
		mcp.WithDescription("Resolve a postcode, town or address to a known location. Supported: "+r.deps.Gazetteer.SupportedText()),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Postcode, town or street address, e.g. 8126 or Zumikon"),
		),
	)
}

// HandleFindLocation resolves free text with the gazetteer.
func (r *Registry) HandleFindLocation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "find_location")

	query := mcp.ParseString(req, "query", "")
	if strings.TrimSpace(query) == "" {
		return ErrorResponse(session.MsgEmptyQuery), nil
	}

	entry, err := r.deps.Gazetteer.Lookup(query)
	if err != nil {
		logger.Debug("location not found", "query", query)
		return ErrorResponse(unknownLocationMessage(r.deps.Gazetteer.SupportedText())), nil
	}

	return jsonResponse(logger, LocationOutput{
		Label:    entry.Label,
		Display:  entry.Display,
		Location: entry.Location,
	}), nil
}

func unknownLocationMessage(supported string) string {
	return "Standort nicht erkannt. Unterstuetzte Orte: " + supported + "."
}

// LocateStoresTool returns a tool definition for the manual store search.
func (r *Registry) LocateStoresTool() mcp.Tool {
	return mcp.NewTool("locate_stores", withSession(
		mcp.WithDescription("Find the nearest stores for a postcode, town or address, recommend the closest one and return an embeddable map"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Postcode, town or street address"),
		),
	)...)
}

// HandleLocateStores runs the manual store search for a session.
func (r *Registry) HandleLocateStores(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "locate_stores")
	sess := r.session(req)

	if err := sess.BeginLocate(); err != nil {
		return ErrorResponse(session.MsgSearching), nil
	}
	defer sess.EndLocate()

	res := sess.LocateQuery(r.deps.Gazetteer, mcp.ParseString(req, "query", ""))
	return locateResponse(logger, res), nil
}

// LocateStoresByPositionTool returns a tool definition for the
// geolocation flow with a client-supplied position.
func (r *Registry) LocateStoresByPositionTool() mcp.Tool {
	return mcp.NewTool("locate_stores_by_position", withSession(
		mcp.WithDescription("Find the nearest stores for a device position, or report why the position is unavailable"),
		mcp.WithNumber("latitude",
			mcp.Description("Latitude of the device"),
			mcp.Min(-90),
			mcp.Max(90),
		),
		mcp.WithNumber("longitude",
			mcp.Description("Longitude of the device"),
			mcp.Min(-180),
			mcp.Max(180),
		),
		mcp.WithNumber("error_code",
			mcp.Description("Geolocation error code reported by the device: 1 permission denied, 2 position unavailable, 3 timeout"),
			mcp.DefaultNumber(0),
		),
	)...)
}

// HandleLocateStoresByPosition runs the geolocation flow for a session.
func (r *Registry) HandleLocateStoresByPosition(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "locate_stores_by_position")
	sess := r.session(req)

	if err := sess.BeginLocate(); err != nil {
		return ErrorResponse(session.MsgSearching), nil
	}
	defer sess.EndLocate()

	if code := int(mcp.ParseFloat64(req, "error_code", 0)); code != 0 {
		logger.Debug("client reported geolocation error", "code", code)
		return locateResponse(logger, sess.LocateFailed(geolocate.FromCode(code))), nil
	}

	pos := geo.Coordinate{
		Latitude:  mcp.ParseFloat64(req, "latitude", math.NaN()),
		Longitude: mcp.ParseFloat64(req, "longitude", math.NaN()),
	}
	if pos.Valid() && !pos.InRange() {
		return ErrorWithGuidance(&ArgumentError{
			Argument: "position",
			Value:    pos.String(),
			Message:  "coordinates out of range",
			Guidance: GuidanceCoordinates,
		}), nil
	}

	return locateResponse(logger, sess.LocatePosition(pos)), nil
}

// LocateStoresAutoTool returns a tool definition for locating with the
// server's position source.
func (r *Registry) LocateStoresAutoTool() mcp.Tool {
	return mcp.NewTool("locate_stores_auto", withSession(
		mcp.WithDescription("Find the nearest stores for the position known to the server"),
	)...)
}

// HandleLocateStoresAuto asks the position provider and runs the
// geolocation flow.
func (r *Registry) HandleLocateStoresAuto(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "locate_stores_auto")
	sess := r.session(req)

	if err := sess.BeginLocate(); err != nil {
		return ErrorResponse(session.MsgSearching), nil
	}
	defer sess.EndLocate()

	pos, err := r.deps.Positions.CurrentPosition(ctx, geolocate.DefaultOptions)
	if err != nil {
		logger.Info("position unavailable", "error", err)
		return locateResponse(logger, sess.LocateFailed(err)), nil
	}
	return locateResponse(logger, sess.LocatePosition(pos)), nil
}

func locateResponse(logger *slog.Logger, res session.Result) *mcp.CallToolResult {
	if res.Status.Variant == session.Error {
		return ErrorResponse(res.Status.Message)
	}
	return jsonResponse(logger, res)
}

// SelectStoreTool returns a tool definition for choosing a store.
func (r *Registry) SelectStoreTool() mcp.Tool {
	return mcp.NewTool("select_store", withSession(
		mcp.WithDescription("Make a store the recommended one"),
		mcp.WithString("store_id",
			mcp.Required(),
			mcp.Description("Store id from locate_stores, e.g. coop-zumikon"),
		),
	)...)
}

// HandleSelectStore applies a store selection.
func (r *Registry) HandleSelectStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "select_store")

	id := strings.TrimSpace(mcp.ParseString(req, "store_id", ""))
	res, err := r.session(req).SelectStore(id)
	if errors.Is(err, session.ErrUnknownStore) {
		return ErrorWithGuidance(&ArgumentError{
			Argument: "store_id",
			Value:    id,
			Message:  "unknown store " + id,
			Guidance: GuidanceStoreID,
		}), nil
	}
	if err != nil {
		logger.Error("failed to select store", "error", err)
		return ErrorResponse("Internal server error"), nil
	}
	return jsonResponse(logger, res), nil
}

// SelectChainTool returns a tool definition for choosing a chain.
func (r *Registry) SelectChainTool() mcp.Tool {
	return mcp.NewTool("select_chain", withSession(
		mcp.WithDescription("Choose the store chain used for meal shopping tips"),
		mcp.WithString("chain",
			mcp.Required(),
			mcp.Description("Store chain"),
			mcp.Enum(stringsOf(stores.Chains)...),
		),
	)...)
}

// HandleSelectChain applies a chain change.
func (r *Registry) HandleSelectChain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	logger := slog.Default().With("tool", "select_chain")

	raw := mcp.ParseString(req, "chain", "")
	chain, err := stores.ParseChain(raw)
	if err != nil {
		return ErrorWithGuidance(choiceError("chain", raw, stringsOf(stores.Chains))), nil
	}

	sess := r.session(req)
	out := ChainOutput{Chain: chain, Status: sess.ChangeChain(chain)}
	if last, ok := sess.LastSuggested(); ok {
		out.Recommended = &last
	}
	return jsonResponse(logger, out), nil
}
