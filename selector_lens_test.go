package rxblox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type profile struct {
	Name string
	Age  int
}

func TestSelectorProjectsAndSuppressesUnchanged(t *testing.T) {
	p := NewSignal(profile{Name: "ada", Age: 30})
	name := NewSelector[profile, string](p, func(v profile) string { return v.Name })

	v, err := name.Read()
	assert.NoError(t, err)
	assert.Equal(t, "ada", v)

	fired := 0
	name.On(func(ChangeEvent[string]) { fired++ })
	name.Read()

	p.Write(profile{Name: "ada", Age: 31})
	name.Read()
	assert.Equal(t, 0, fired, "a projection that doesn't change must not notify")

	p.Write(profile{Name: "grace", Age: 31})
	name.Read()
	assert.Equal(t, 1, fired)
}

func TestSelectChainsOffParent(t *testing.T) {
	p := NewSignal(profile{Name: "ada", Age: 30})
	nameSel := NewSelector[profile, string](p, func(v profile) string { return v.Name })
	upper := Select(nameSel, func(s string) string {
		out := make([]byte, len(s))
		for i := range s {
			c := s[i]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			out[i] = c
		}
		return string(out)
	})

	v, err := upper.Read()
	assert.NoError(t, err)
	assert.Equal(t, "ADA", v)
}

func TestFieldLensReadWrite(t *testing.T) {
	p := NewSignal(profile{Name: "ada", Age: 30})
	ageLens := FieldLens(p, func(v *profile) *int { return &v.Age })

	assert.Equal(t, 30, ageLens.Read())

	ageLens.Write(31)
	assert.Equal(t, 31, ageLens.Read())
	assert.Equal(t, "ada", p.Read().Name, "writing through the lens must preserve sibling fields")
}

func TestFieldLensUpdate(t *testing.T) {
	p := NewSignal(profile{Name: "ada", Age: 30})
	ageLens := FieldLens(p, func(v *profile) *int { return &v.Age })

	ageLens.Update(func(v int) int { return v + 1 })
	assert.Equal(t, 31, ageLens.Read())
}

func TestComposeLens(t *testing.T) {
	type address struct{ City string }
	type account struct {
		Profile profile
		Address address
	}

	a := NewSignal(account{Profile: profile{Name: "ada"}, Address: address{City: "london"}})
	profileLens := FieldLens(a, func(v *account) *profile { return &v.Profile })
	nameLens := ComposeLens(profileLens,
		func(p profile) string { return p.Name },
		func(p profile, n string) profile { p.Name = n; return p },
	)

	assert.Equal(t, "ada", nameLens.Read())
	nameLens.Write("grace")
	assert.Equal(t, "grace", a.Read().Profile.Name)
	assert.Equal(t, "london", a.Read().Address.City)
}

func TestLensMapAdapts(t *testing.T) {
	p := NewSignal(profile{Name: "ada"})
	nameLens := FieldLens(p, func(v *profile) *string { return &v.Name })
	handler := nameLens.Map(func(raw any) string { return raw.(string) + "!" })

	handler("grace")
	assert.Equal(t, "grace!", nameLens.Read())
}
