package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAvailabilityRequiresAllFields(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	_, err := f.availability.AddAvailability(ctx, "t@x.com", AvailabilityInput{Day: "Monday", StartTime: "09:00"})
	assert.True(t, IsValidationError(err))
	assert.Equal(t, 1, f.warnCount())

	list, err := f.availability.ListAvailability(ctx, "t@x.com")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAddAvailabilityValidatesValues(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	cases := []AvailabilityInput{
		{Day: "Funday", StartTime: "09:00", EndTime: "10:00"},
		{Day: "Monday", StartTime: "9am", EndTime: "10:00"},
		{Day: "Monday", StartTime: "10:00", EndTime: "09:00"},
		{Day: "Monday", StartTime: "10:00", EndTime: "10:00"},
	}
	for _, in := range cases {
		_, err := f.availability.AddAvailability(ctx, "t@x.com", in)
		assert.True(t, IsValidationError(err), "%+v", in)
	}
}

func TestAddAvailabilityRejectsOverlap(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	first, err := f.availability.AddAvailability(ctx, "T@x.com", AvailabilityInput{Day: "Monday", StartTime: "9:00", EndTime: "10:00"})
	require.NoError(t, err)
	assert.Equal(t, "09:00", first.StartTime)
	assert.Equal(t, "t@x.com", first.TeacherEmail)

	_, err = f.availability.AddAvailability(ctx, "t@x.com", AvailabilityInput{Day: "Monday", StartTime: "09:30", EndTime: "11:00"})
	assert.ErrorIs(t, err, ErrAvailabilityOverlap)

	// соседние окна и другой день допустимы
	_, err = f.availability.AddAvailability(ctx, "t@x.com", AvailabilityInput{Day: "Monday", StartTime: "10:00", EndTime: "11:00"})
	require.NoError(t, err)
	_, err = f.availability.AddAvailability(ctx, "t@x.com", AvailabilityInput{Day: "Tuesday", StartTime: "09:30", EndTime: "11:00"})
	require.NoError(t, err)

	list, err := f.availability.ListAvailability(ctx, "t@x.com")
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestDeleteAvailabilityOwnerOnly(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	slot, err := f.availability.AddAvailability(ctx, "t@x.com", AvailabilityInput{Day: "Monday", StartTime: "09:00", EndTime: "10:00"})
	require.NoError(t, err)

	assert.ErrorIs(t, f.availability.DeleteAvailability(ctx, "other@x.com", slot.ID), ErrForbidden)
	require.NoError(t, f.availability.DeleteAvailability(ctx, "t@x.com", slot.ID))
	assert.ErrorIs(t, f.availability.DeleteAvailability(ctx, "t@x.com", slot.ID), ErrNotFound)

	list, err := f.availability.ListAvailability(ctx, "t@x.com")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestConcurrentOverlappingAddsKeepOneWindow(t *testing.T) {
	f := newFixture(t, AppointmentOptions{})
	ctx := context.Background()

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		added   int
		overlap int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.availability.AddAvailability(ctx, "t@x.com", AvailabilityInput{Day: "Monday", StartTime: "09:00", EndTime: "10:00"})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				added++
			} else if assert.ErrorIs(t, err, ErrAvailabilityOverlap) {
				overlap++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, added)
	assert.Equal(t, workers-1, overlap)

	list, err := f.availability.ListAvailability(ctx, "t@x.com")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
