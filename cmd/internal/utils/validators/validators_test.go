package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passwordForm struct {
	Password string `json:"password" validate:"required,min=8,hasspecial,hasdigit,hasupper,haslower,nospaces"`
}

type scheduleForm struct {
	At  string `json:"at" validate:"required,iso8601"`
	Due string `json:"due" validate:"omitempty,isodate"`
}

func TestPasswordRules(t *testing.T) {
	validate := New()

	assert.NoError(t, validate.Struct(&passwordForm{Password: "Secr3t!pass"}))

	cases := map[string]string{
		"no upper":   "secr3t!pass",
		"no lower":   "SECR3T!PASS",
		"no digit":   "Secret!pass",
		"no special": "Secr3tpass1",
		"has space":  "Secr3t! pass",
	}
	for name, pw := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, validate.Struct(&passwordForm{Password: pw}))
		})
	}
}

func TestTimestampRules(t *testing.T) {
	validate := New()

	assert.NoError(t, validate.Struct(&scheduleForm{At: "2025-08-14T09:30"}))
	assert.NoError(t, validate.Struct(&scheduleForm{At: "2025-08-14T09:30:00Z", Due: "2025-09-01"}))

	err := validate.Struct(&scheduleForm{At: "tomorrow", Due: "01/09/2025"})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	assert.Equal(t, map[string]string{"at": "iso8601", "due": "isodate"}, fields)
}
