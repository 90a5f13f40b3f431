package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CollectsAllViolations(t *testing.T) {
	// все нарушения возвращаются одним списком, без short-circuit
	req := &Request{Body: map[string]any{
		"username": "a!",
		"password": "abcdefg1",
	}}

	_, errs, err := Run(context.Background(), req,
		Username("username"),
		Password("password"),
	)

	require.NoError(t, err)
	require.Len(t, errs, 2)
	assert.Equal(t, "username", errs[0].Field)
	assert.Equal(t, "password", errs[1].Field)
}

func TestRun_DropsUnregisteredFields(t *testing.T) {
	req := &Request{Body: map[string]any{
		"title":    "hello",
		"is_admin": true,
		"user_id":  "someone-else",
	}}

	out, errs, err := Run(context.Background(), req,
		String("title", StringOpts{Min: 1}),
	)

	require.NoError(t, err)
	require.Nil(t, errs)
	assert.Equal(t, map[string]any{"title": "hello"}, out)
	assert.NotContains(t, out, "is_admin")
	assert.NotContains(t, out, "user_id")
}

func TestString(t *testing.T) {
	tests := []struct {
		body      map[string]any
		want      any
		name      string
		opts      StringOpts
		wantError bool
	}{
		{
			name: "trims and escapes html",
			body: map[string]any{"title": "  <b>hi</b>  "},
			opts: StringOpts{Min: 1},
			want: "&lt;b&gt;hi&lt;/b&gt;",
		},
		{
			name:      "missing required field",
			body:      map[string]any{},
			opts:      StringOpts{Min: 1},
			wantError: true,
		},
		{
			name: "missing optional field ok",
			body: map[string]any{},
			opts: StringOpts{Optional: true},
			want: nil,
		},
		{
			name:      "wrong type",
			body:      map[string]any{"title": 42.0},
			opts:      StringOpts{},
			wantError: true,
		},
		{
			name:      "too short",
			body:      map[string]any{"title": "ab"},
			opts:      StringOpts{Min: 3},
			wantError: true,
		},
		{
			name:      "too long",
			body:      map[string]any{"title": "abcdef"},
			opts:      StringOpts{Max: 5},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := map[string]any{}
			fieldErr, err := String("title", tt.opts)(context.Background(), &Request{Body: tt.body}, out)
			require.NoError(t, err)

			if tt.wantError {
				require.NotNil(t, fieldErr)
				assert.Equal(t, "title", fieldErr.Field)
				assert.Equal(t, "body", fieldErr.Location)
				return
			}

			require.Nil(t, fieldErr)
			if tt.want != nil {
				assert.Equal(t, tt.want, out["title"])
			} else {
				assert.NotContains(t, out, "title")
			}
		})
	}
}

func TestRawString_PreservesContent(t *testing.T) {
	out := map[string]any{}
	raw := "<p>raw & unescaped</p>"

	fieldErr, err := RawString("content", false)(context.Background(),
		&Request{Body: map[string]any{"content": raw}}, out)

	require.NoError(t, err)
	require.Nil(t, fieldErr)
	assert.Equal(t, raw, out["content"])
}

func TestBoolean(t *testing.T) {
	tests := []struct {
		value     any
		want      any
		name      string
		wantError bool
	}{
		{name: "native bool", value: true, want: true},
		{name: "string true", value: "true", want: true},
		{name: "string false", value: "false", want: false},
		{name: "missing is ok", value: nil, want: nil},
		{name: "garbage string", value: "yep", wantError: true},
		{name: "number", value: 1.0, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]any{}
			if tt.value != nil {
				body["is_published"] = tt.value
			}

			out := map[string]any{}
			fieldErr, err := Boolean("is_published")(context.Background(), &Request{Body: body}, out)
			require.NoError(t, err)

			if tt.wantError {
				require.NotNil(t, fieldErr)
				return
			}

			require.Nil(t, fieldErr)
			if tt.want != nil {
				assert.Equal(t, tt.want, out["is_published"])
			} else {
				assert.NotContains(t, out, "is_published")
			}
		})
	}
}

func TestID(t *testing.T) {
	valid := uuid.New().String()

	fieldErr, err := ID("id")(context.Background(), &Request{Params: map[string]string{"id": valid}}, nil)
	require.NoError(t, err)
	assert.Nil(t, fieldErr)

	fieldErr, err = ID("id")(context.Background(), &Request{Params: map[string]string{"id": "not-an-id"}}, nil)
	require.NoError(t, err)
	require.NotNil(t, fieldErr)
	assert.Equal(t, "params", fieldErr.Location)
}

func TestUsername(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "valid", value: "alice_42"},
		{name: "trimmed", value: "  bob  "},
		{name: "too short", value: "ab", wantError: true},
		{name: "illegal characters", value: "alice!", wantError: true},
		{name: "spaces inside", value: "a li ce", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := map[string]any{}
			fieldErr, err := Username("username")(context.Background(),
				&Request{Body: map[string]any{"username": tt.value}}, out)
			require.NoError(t, err)

			if tt.wantError {
				assert.NotNil(t, fieldErr)
			} else {
				assert.Nil(t, fieldErr)
			}
		})
	}
}

func TestUniqueUsername(t *testing.T) {
	taken := func(ctx context.Context, username string) (bool, error) {
		return username == "alice", nil
	}

	fieldErr, err := UniqueUsername("username", taken)(context.Background(),
		&Request{Body: map[string]any{"username": "alice"}}, nil)
	require.NoError(t, err)
	require.NotNil(t, fieldErr)
	assert.Equal(t, "username already in use", fieldErr.Message)

	fieldErr, err = UniqueUsername("username", taken)(context.Background(),
		&Request{Body: map[string]any{"username": "bob"}}, nil)
	require.NoError(t, err)
	assert.Nil(t, fieldErr)
}

func TestUniqueUsername_StoreFailure(t *testing.T) {
	storeErr := errors.New("db down")
	failing := func(ctx context.Context, username string) (bool, error) {
		return false, storeErr
	}

	// отказ хранилища — внутренняя ошибка, а не ошибка валидации
	_, _, err := Run(context.Background(),
		&Request{Body: map[string]any{"username": "alice"}},
		UniqueUsername("username", failing),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
}

func TestPassword(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "valid", value: "Str0ng!pass"},
		{name: "no symbol", value: "abcdefgh1A", wantError: true},
		{name: "no digit", value: "abcdefgH!", wantError: true},
		{name: "no uppercase", value: "abcdefg1!", wantError: true},
		{name: "no lowercase", value: "ABCDEFG1!", wantError: true},
		{name: "too short", value: "aB1!", wantError: true},
		{name: "illegal character", value: "Str0ng!pass#", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := map[string]any{}
			fieldErr, err := Password("password")(context.Background(),
				&Request{Body: map[string]any{"password": tt.value}}, out)
			require.NoError(t, err)

			if tt.wantError {
				require.NotNil(t, fieldErr)
				// пароль не должен попадать в ответ об ошибке
				assert.Empty(t, fieldErr.Value)
			} else {
				assert.Nil(t, fieldErr)
				assert.Equal(t, tt.value, out["password"])
			}
		})
	}
}

func TestRepeatPassword(t *testing.T) {
	body := map[string]any{"password": "Str0ng!pass", "repeat_password": "Str0ng!pass"}
	out := map[string]any{}

	fieldErr, err := RepeatPassword("repeat_password", "password")(context.Background(), &Request{Body: body}, out)
	require.NoError(t, err)
	assert.Nil(t, fieldErr)
	// повтор пароля не попадает в очищенное тело
	assert.NotContains(t, out, "repeat_password")

	body["repeat_password"] = "Other1!pass"
	fieldErr, err = RepeatPassword("repeat_password", "password")(context.Background(), &Request{Body: body}, out)
	require.NoError(t, err)
	require.NotNil(t, fieldErr)
	assert.Equal(t, "password and repeat_password doesn't match", fieldErr.Message)
}
