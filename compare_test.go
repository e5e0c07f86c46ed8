package tablexpr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompareValuesNumeric(t *testing.T) {
	assert.Equal(t, -1, CompareValues(int64(1), int64(2)))
	assert.Equal(t, 0, CompareValues(int64(2), int64(2)))
	assert.Equal(t, 1, CompareValues(int64(3), int64(2)))
	assert.Equal(t, -1, CompareValues(1.5, 2))
	assert.Equal(t, 0, CompareValues(2, 2.0))
}

func TestCompareValuesString(t *testing.T) {
	assert.Equal(t, -1, CompareValues("a", "b"))
	assert.Equal(t, 0, CompareValues("bar", "bar"))
}

func TestCompareValuesTimeAndDuration(t *testing.T) {
	t1 := time.Unix(0, 0).UTC()
	t2 := t1.Add(time.Hour)
	assert.Equal(t, -1, CompareValues(t1, t2))
	assert.Equal(t, 1, CompareValues(t2, t1))
	assert.Equal(t, 0, CompareValues(t1, t1))

	assert.Equal(t, -1, CompareValues(time.Second, time.Minute))
}

func TestCompareValuesNil(t *testing.T) {
	assert.Equal(t, 0, CompareValues(nil, nil))
	assert.Equal(t, -1, CompareValues(nil, 1))
	assert.Equal(t, 1, CompareValues(1, nil))
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, ValuesEqual(int64(5), int64(5)))
	assert.False(t, ValuesEqual(int64(5), int64(6)))
	d := time.Hour
	assert.True(t, ValuesEqual(d, time.Hour))
}

func TestValuesEqualAgreesWithCompareValuesAcrossNumericTypes(t *testing.T) {
	assert.True(t, ValuesEqual(int64(5), float64(5)))
	assert.True(t, ValuesEqual(float64(5), int64(5)))
	assert.True(t, ValuesEqual(5, int64(5)))
	assert.False(t, ValuesEqual(int64(5), float64(5.5)))
}
