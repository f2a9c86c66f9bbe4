package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/bulk"
	"github.com/angelmondragon/storefront-backend/internal/customers"
	"github.com/angelmondragon/storefront-backend/internal/orders"
	"github.com/angelmondragon/storefront-backend/internal/search"
	"github.com/angelmondragon/storefront-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

const maxOrderPatchBytes = 16 << 10

type orderStatusRequest struct {
	Status enums.OrderStatus `json:"status" validate:"required,oneof=pendiente completado cancelado"`
}

// AdminOrders lists every order across customers, newest first.
func AdminOrders(svc search.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := orderFilter(r, loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.Orders(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp, err := paged(r, list)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminExportOrders renders the filtered orders as CSV, one row per line item.
func AdminExportOrders(svc search.Service, loc *time.Location, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := orderFilter(r, loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.Orders(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		body, err := bulk.OrdersCSV(list, loc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render orders csv"))
			return
		}
		now := time.Now()
		if loc != nil {
			now = now.In(loc)
		}
		responses.WriteCSV(w, fmt.Sprintf("orders-%s.csv", now.Format("2006-01-02")), body)
	}
}

func AdminCustomerOrders(svc search.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.CustomerOrders(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// AdminPutOrder edits an order. A JSON null body deletes it instead.
func AdminPutOrder(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, orderID, err := orderPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		raw, isNull, err := validators.ReadNullableBody(r, maxOrderPatchBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var patch *orders.Patch
		if !isNull {
			patch = &orders.Patch{}
			if err := validators.DecodeJSON(raw, patch); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		order, err := svc.UpdateOrder(r.Context(), customerID, orderID, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if order == nil {
			responses.WriteNoContent(w)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func AdminDeleteOrder(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, orderID, err := orderPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteOrder(r.Context(), customerID, orderID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func AdminSetOrderStatus(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, orderID, err := orderPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload orderStatusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.SetOrderStatus(r.Context(), customerID, orderID, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func orderPath(r *http.Request) (string, string, error) {
	customerID, err := pathParam(r, "customerId")
	if err != nil {
		return "", "", err
	}
	orderID, err := pathParam(r, "orderId")
	if err != nil {
		return "", "", err
	}
	return customerID, orderID, nil
}

func orderFilter(r *http.Request, loc *time.Location) (search.OrderFilter, error) {
	status := strings.ToLower(validators.QueryString(r, "status", 20))
	if status != "" && status != search.StatusAll {
		if _, err := enums.ParseOrderStatus(status); err != nil {
			return search.OrderFilter{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
	}
	from, err := validators.ParseQueryDate(r, "from", loc)
	if err != nil {
		return search.OrderFilter{}, err
	}
	to, err := validators.ParseQueryDate(r, "to", loc)
	if err != nil {
		return search.OrderFilter{}, err
	}
	return search.OrderFilter{
		Status:   status,
		From:     from,
		To:       to,
		Query:    validators.QueryString(r, "q", maxQueryLen),
		Location: loc,
	}, nil
}
