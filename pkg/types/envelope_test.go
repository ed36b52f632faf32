package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSucceed(t *testing.T) {
	p := &Product{ID: 1, Name: "A"}
	resp := Succeed("CRUD.READ.SUCCESS", "Product 1 retrieved successfully", p)

	assert.True(t, resp.OK())
	assert.Equal(t, StatusSuccess, resp.Status)
	assert.Same(t, p, resp.Payload)
}

func TestFail(t *testing.T) {
	single := Fail[*Product]("CRUD.READ.ERROR", "Failed to retrieve Product 1")
	assert.False(t, single.OK())
	assert.Equal(t, StatusError, single.Status)
	assert.Nil(t, single.Payload)

	list := Fail[[]Product]("CRUD.READ.ERROR", "Failed to retrieve Product list")
	assert.Nil(t, list.Payload)
}

func TestResponseNotice(t *testing.T) {
	resp := Succeed[[]Product]("CRUD.READ.SUCCESS", "ok", []Product{})
	n := resp.Notice()

	assert.Equal(t, Notice{Status: StatusSuccess, Code: "CRUD.READ.SUCCESS", Message: "ok"}, n)
	assert.True(t, n.OK())
	assert.False(t, Notice{}.OK())
}

func TestResponseJSONShape(t *testing.T) {
	out, err := json.Marshal(Fail[*Product]("CRUD.DELETE.ERROR", "Failed to delete Product 7"))
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"status":"error","code":"CRUD.DELETE.ERROR","message":"Failed to delete Product 7","payload":null}`,
		string(out))
}
