package api

import (
	"errors"
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pentafan/pentafan/internal/controller"
	"github.com/qdm12/reprint"
)

type EnabledRequest struct {
	Enabled *bool `json:"enabled"`
}

func registerFanEndpoints(rest *echo.Echo) {
	group := rest.Group("/fan")

	group.GET("/", getFans)
	group.GET("/:"+urlParamId+"/", getFan)
	group.POST("/:"+urlParamId+"/enabled/", setFanEnabled)
}

// returns the state of all currently running fan controllers
func getFans(c echo.Context) error {
	var data []controller.FanSnapshot
	for _, contr := range controller.ControllerMap.Items() {
		data = append(data, contr.GetSnapshot())
	}
	sort.Slice(data, func(i, j int) bool {
		return data[i].FanId < data[j].FanId
	})
	return c.JSONPretty(http.StatusOK, reprint.This(data), indentationChar)
}

func getFan(c echo.Context) error {
	id := c.Param(urlParamId)
	contr, exists := controller.ControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, reprint.This(contr.GetSnapshot()), indentationChar)
}

// enables or disables automatic control of a fan, a disabled fan is switched off
func setFanEnabled(c echo.Context) error {
	id := c.Param(urlParamId)
	contr, exists := controller.ControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request EnabledRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}
	if request.Enabled == nil {
		return returnBadRequest(c, errors.New("field 'enabled' is required"))
	}

	contr.SetEnabled(*request.Enabled)
	return c.JSONPretty(http.StatusOK, contr.GetSnapshot(), indentationChar)
}
