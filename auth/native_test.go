package auth_test

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/sparqlcore/engine/auth"
)

const (
	baseConfig = `
[
	{
		"name": "root",
		"password": "password",
		"permissions": ["read", "write"]
	},
	{
		"name": "user",
		"password": "password",
		"permissions": ["read"]
	},
	{
		"name": "no_permissions",
		"permissions": []
	}
]`
	duplicateUser = `
[
	{ "name": "user" },
	{ "name": "user" }
]`
	badPermission = `
[
	{ "permissions": ["read", "write", "admin"] }
]`
	badJSON = "I,am{not}JSON"
)

func writeConfig(config string) (string, error) {
	tmp, err := ioutil.TempFile("", "native-config")
	if err != nil {
		return "", err
	}

	_, err = tmp.WriteString(config)
	if err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}

func TestNativeAuthorizationSingleAll(t *testing.T) {
	a := auth.NewNativeSingle("user", "password", auth.AllPermissions)

	tests := []permissionTest{
		{"user", queries["select"], auth.ReadPerm, true},
		{"root", queries["select"], auth.ReadPerm, false},
		{"", queries["select"], auth.ReadPerm, false},

		{"user", queries["insert"], auth.WritePerm, true},
		{"root", queries["insert"], auth.WritePerm, false},
		{"", queries["insert"], auth.WritePerm, false},
	}

	testPermission(t, a, tests, nil)
}

func TestNativeAuthorizationSingleRead(t *testing.T) {
	a := auth.NewNativeSingle("user", "password", auth.ReadPerm)

	tests := []permissionTest{
		{"user", queries["select"], auth.ReadPerm, true},
		{"root", queries["select"], auth.ReadPerm, false},

		{"user", queries["insert"], auth.WritePerm, false},
		{"root", queries["insert"], auth.WritePerm, false},
	}

	testPermission(t, a, tests, nil)
}

func TestNativeAuthorization(t *testing.T) {
	require := require.New(t)

	conf, err := writeConfig(baseConfig)
	require.NoError(err)
	defer os.Remove(conf)

	a, err := auth.NewNativeFile(conf)
	require.NoError(err)

	tests := []permissionTest{
		{"", queries["select"], auth.ReadPerm, false},
		{"user", queries["select"], auth.ReadPerm, true},
		{"no_permissions", queries["select"], auth.ReadPerm, false},
		{"root", queries["select"], auth.ReadPerm, true},

		{"", queries["insert"], auth.WritePerm, false},
		{"user", queries["insert"], auth.WritePerm, false},
		{"no_permissions", queries["insert"], auth.WritePerm, false},
		{"root", queries["insert"], auth.WritePerm, true},
	}

	testPermission(t, a, tests, nil)
}

func TestNativeErrors(t *testing.T) {
	tests := []struct {
		name   string
		config string
		err    *errors.Kind
	}{
		{"duplicate_user", duplicateUser, auth.ErrDuplicateUser},
		{"bad_permission", badPermission, auth.ErrUnknownPermission},
		{"malformed", badJSON, auth.ErrParseUserFile},
	}

	for _, c := range tests {
		t.Run(c.name, func(t *testing.T) {
			require := require.New(t)

			conf, err := writeConfig(c.config)
			require.NoError(err)
			defer os.Remove(conf)

			_, err = auth.NewNativeFile(conf)
			require.Error(err)
			require.True(c.err.Is(err))
		})
	}
}
