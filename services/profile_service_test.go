package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fadhlanhapp/ridefare-backend/models"
	"github.com/fadhlanhapp/ridefare-backend/utils"
)

func TestRegister_ValidatesInput(t *testing.T) {
	e := newEngine()

	_, err := e.profiles.Register("p-1", models.AccountType("owner"), "Name", "+62")
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindValidation, err.Kind)

	_, err = e.profiles.Register("p-1", models.AccountDriver, "", "+62")
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindValidation, err.Kind)

	_, err = e.profiles.Register("p-1", models.AccountDriver, "Name", "")
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindValidation, err.Kind)
}

func TestRegister_DuplicatePrincipalRejected(t *testing.T) {
	e := newEngine()

	_, err := e.profiles.Register("p-1", models.AccountDriver, "First", "+621")
	assert.Nil(t, err)

	_, err = e.profiles.Register("p-1", models.AccountPassenger, "Second", "+622")
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindValidation, err.Kind)

	// The original registration is untouched
	profile, getErr := e.profiles.Get("p-1")
	assert.Nil(t, getErr)
	assert.Equal(t, "First", profile.FullName)
	assert.Equal(t, models.AccountDriver, profile.AccountType)
}

func TestUpdate_KeepsAccountType(t *testing.T) {
	e := newEngine()

	_, err := e.profiles.Register("p-1", models.AccountDriver, "Old Name", "+621")
	assert.Nil(t, err)

	profile, err := e.profiles.Update("p-1", "New Name", "+629")
	assert.Nil(t, err)
	assert.Equal(t, "New Name", profile.FullName)
	assert.Equal(t, "+629", profile.Phone)
	assert.Equal(t, models.AccountDriver, profile.AccountType)

	_, err = e.profiles.Update("nobody", "Name", "+62")
	assert.NotNil(t, err)
	assert.Equal(t, utils.KindNotFound, err.Kind)
}

func TestDrivers_SortedByName(t *testing.T) {
	e := newEngine()

	_, err := e.profiles.Register("d-1", models.AccountDriver, "Charlie", "+621")
	assert.Nil(t, err)
	_, err = e.profiles.Register("d-2", models.AccountDriver, "Alice", "+622")
	assert.Nil(t, err)
	_, err = e.profiles.Register("p-1", models.AccountPassenger, "Bob", "+623")
	assert.Nil(t, err)

	drivers := e.profiles.Drivers()
	assert.Len(t, drivers, 2)
	assert.Equal(t, "Alice", drivers[0].FullName)
	assert.Equal(t, "Charlie", drivers[1].FullName)
}
