package flow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/issafronov/pastelite/internal/app/apierror"
)

func TestForm_Validate(t *testing.T) {
	tests := []struct {
		name        string
		form        Form
		wantMessage string
		wantTTL     *int
		wantViews   *int
	}{
		{name: "empty_content", form: Form{Content: ""}, wantMessage: MessageEmptyContent},
		{name: "blank_content", form: Form{Content: " \n\t "}, wantMessage: MessageEmptyContent},
		{name: "content_wins", form: Form{Content: " ", TTLSeconds: "0", MaxViews: "x"}, wantMessage: MessageEmptyContent},
		{name: "ttl_zero", form: Form{Content: "a", TTLSeconds: "0"}, wantMessage: MessageInvalidTTL},
		{name: "ttl_negative", form: Form{Content: "a", TTLSeconds: "-5"}, wantMessage: MessageInvalidTTL},
		{name: "ttl_fraction", form: Form{Content: "a", TTLSeconds: "1.5"}, wantMessage: MessageInvalidTTL},
		{name: "ttl_text", form: Form{Content: "a", TTLSeconds: "soon"}, wantMessage: MessageInvalidTTL},
		{name: "ttl_nan", form: Form{Content: "a", TTLSeconds: "NaN"}, wantMessage: MessageInvalidTTL},
		{name: "ttl_inf", form: Form{Content: "a", TTLSeconds: "Inf"}, wantMessage: MessageInvalidTTL},
		{name: "ttl_huge", form: Form{Content: "a", TTLSeconds: "1e400"}, wantMessage: MessageInvalidTTL},
		{name: "ttl_before_views", form: Form{Content: "a", TTLSeconds: "0", MaxViews: "0"}, wantMessage: MessageInvalidTTL},
		{name: "views_zero", form: Form{Content: "a", MaxViews: "0"}, wantMessage: MessageInvalidViews},
		{name: "views_fraction", form: Form{Content: "a", TTLSeconds: "60", MaxViews: "2.25"}, wantMessage: MessageInvalidViews},
		{name: "content_only", form: Form{Content: "a"}},
		{name: "integers", form: Form{Content: "a", TTLSeconds: "3600", MaxViews: "5"}, wantTTL: ptr(3600), wantViews: ptr(5)},
		{name: "padded", form: Form{Content: "a", TTLSeconds: " 7 "}, wantTTL: ptr(7)},
		{name: "integral_float", form: Form{Content: "a", TTLSeconds: "5.0", MaxViews: "1e3"}, wantTTL: ptr(5), wantViews: ptr(1000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := tt.form.Validate()
			if tt.wantMessage != "" {
				require.Error(t, err)
				classified := apierror.Classify(err)
				assert.Equal(t, apierror.KindValidation, classified.Kind)
				assert.Equal(t, tt.wantMessage, classified.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.form.Content, req.Content)
			assert.Equal(t, tt.wantTTL, req.TTLSeconds)
			assert.Equal(t, tt.wantViews, req.MaxViews)
		})
	}
}

func TestForm_ValidateKeepsContentAsTyped(t *testing.T) {
	req, err := Form{Content: "  indented\n"}.Validate()
	require.NoError(t, err)

	body, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"  indented\n"}`, string(body))
}

func ptr(v int) *int { return &v }
