package handler

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

var groupPayload = map[string]string{
	"name":        "Dragons",
	"description": "A dragon hunting campaign",
	"schedule":    "Fridays",
	"location":    "online",
	"chronic":     "weekly",
}

type groupBody struct {
	Group struct {
		ID      int64   `json:"id"`
		Name    string  `json:"name"`
		Master  int64   `json:"master"`
		Players []int64 `json:"players"`
	} `json:"group"`
}

func (s *testServer) createGroup(t *testing.T, token string) groupBody {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/groups", token, groupPayload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var g groupBody
	decode(t, rec, &g)
	return g
}

func TestCreateGroup(t *testing.T) {
	s := newTestServer(t)
	masterID, token := s.signup(t, "master")

	payload := map[string]any{}
	for k, v := range groupPayload {
		payload[k] = v
	}
	payload["master"] = 999

	rec := s.do(t, http.MethodPost, "/groups", token, payload)
	require.Equal(t, http.StatusCreated, rec.Code)
	var g groupBody
	decode(t, rec, &g)
	assert.Equal(t, masterID, g.Group.Master)
	assert.Equal(t, []int64{masterID}, g.Group.Players)

	rec = s.do(t, http.MethodPost, "/groups", token, map[string]string{"name": "x"})
	assertError(t, rec, http.StatusUnprocessableEntity, "BAD_REQUEST")

	rec = s.do(t, http.MethodPost, "/groups", "", groupPayload)
	assertError(t, rec, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestUpdateAndDeleteGroup(t *testing.T) {
	s := newTestServer(t)
	_, masterToken := s.signup(t, "master")
	_, otherToken := s.signup(t, "other")
	g := s.createGroup(t, masterToken)
	path := "/groups/" + itoa(g.Group.ID)

	rec := s.do(t, http.MethodPatch, "/groups/999", masterToken, map[string]string{})
	assertError(t, rec, http.StatusNotFound, "BAD_REQUEST")

	rec = s.do(t, http.MethodPatch, path, otherToken, map[string]string{"name": "x"})
	body := assertError(t, rec, http.StatusBadRequest, "BAD_REQUEST")
	assert.Equal(t, "only the group master can update the group", body.Message)

	rec = s.do(t, http.MethodPatch, path, masterToken, map[string]string{"name": ""})
	assertError(t, rec, http.StatusUnprocessableEntity, "BAD_REQUEST")

	rec = s.do(t, http.MethodPatch, path, masterToken, map[string]string{"name": "Wyverns"})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated groupBody
	decode(t, rec, &updated)
	assert.Equal(t, "Wyverns", updated.Group.Name)

	rec = s.do(t, http.MethodDelete, path, otherToken, nil)
	assertError(t, rec, http.StatusBadRequest, "BAD_REQUEST")

	rec = s.do(t, http.MethodDelete, path, masterToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = s.do(t, http.MethodDelete, path, masterToken, nil)
	assertError(t, rec, http.StatusNotFound, "BAD_REQUEST")
}

func TestListGroups(t *testing.T) {
	s := newTestServer(t)
	masterID, token := s.signup(t, "master")
	s.createGroup(t, token)
	s.createGroup(t, token)

	rec := s.do(t, http.MethodGet, "/groups?text=DRAGON&user="+itoa(masterID)+"&perPage=1&page=2", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Groups struct {
			Meta struct {
				Total       int `json:"total"`
				PerPage     int `json:"perPage"`
				CurrentPage int `json:"currentPage"`
				LastPage    int `json:"lastPage"`
				FirstPage   int `json:"firstPage"`
			} `json:"meta"`
			Data []map[string]any `json:"data"`
		} `json:"groups"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, 2, resp.Groups.Meta.Total)
	assert.Equal(t, 2, resp.Groups.Meta.LastPage)
	assert.Equal(t, 2, resp.Groups.Meta.CurrentPage)
	assert.Equal(t, 1, resp.Groups.Meta.FirstPage)
	assert.Len(t, resp.Groups.Data, 1)

	rec = s.do(t, http.MethodGet, "/groups?text=nothing-matches", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"data":[]`)

	rec = s.do(t, http.MethodGet, "/groups?user=abc", token, nil)
	assertError(t, rec, http.StatusUnprocessableEntity, "BAD_REQUEST")
}

func TestRemovePlayer(t *testing.T) {
	s := newTestServer(t)
	masterID, masterToken := s.signup(t, "master")
	playerID, playerToken := s.signup(t, "player")
	g := s.createGroup(t, masterToken)
	gid := itoa(g.Group.ID)

	rec := s.do(t, http.MethodPost, "/groups/"+gid+"/requests", playerToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var req struct {
		GroupRequest struct {
			ID int64 `json:"id"`
		} `json:"groupRequest"`
	}
	decode(t, rec, &req)

	rec = s.do(t, http.MethodPost, "/groups/"+gid+"/requests/"+itoa(req.GroupRequest.ID)+"/accept", masterToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodDelete, "/groups/"+gid+"/players/"+itoa(masterID), masterToken, nil)
	body := assertError(t, rec, http.StatusBadRequest, "BAD_REQUEST")
	assert.Equal(t, "the master cannot be removed from the group", body.Message)

	rec = s.do(t, http.MethodDelete, "/groups/"+gid+"/players/"+itoa(playerID), playerToken, nil)
	assertError(t, rec, http.StatusBadRequest, "BAD_REQUEST")

	rec = s.do(t, http.MethodDelete, "/groups/999/players/"+itoa(playerID), masterToken, nil)
	assertError(t, rec, http.StatusNotFound, "BAD_REQUEST")

	rec = s.do(t, http.MethodDelete, "/groups/"+gid+"/players/"+itoa(playerID), masterToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
