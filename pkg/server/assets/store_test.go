/* Copyright 2025 Dnote Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package assets

import (
	"testing"
	"time"

	"github.com/dnote/bookstore/pkg/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() (*Store, *clock.Mock) {
	c := clock.NewMock()
	c.SetNow(time.UnixMilli(1700000000123))

	return NewMemoryStore(c), c
}

func TestSave(t *testing.T) {
	t.Run("generates name from original name and timestamp", func(t *testing.T) {
		s, _ := newTestStore()

		name, err := s.Save(Upload{Name: "dune.png", Data: []byte("png-bytes")})
		require.NoError(t, err)
		assert.Equal(t, "dune.png_1700000000123.png", name)

		data, found, err := s.Load(name)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("png-bytes"), data)
	})

	t.Run("strips directories from the original name", func(t *testing.T) {
		s, _ := newTestStore()

		name, err := s.Save(Upload{Name: "../../etc/cover.jpg", Data: []byte("x")})
		require.NoError(t, err)
		assert.Equal(t, "cover.jpg_1700000000123.jpg", name)

		name, err = s.Save(Upload{Name: `C:\Users\me\back.gif`, Data: []byte("x")})
		require.NoError(t, err)
		assert.Equal(t, "back.gif_1700000000123.gif", name)
	})

	t.Run("bumps the timestamp on collision", func(t *testing.T) {
		s, _ := newTestStore()

		first, err := s.Save(Upload{Name: "a.png", Data: []byte("1")})
		require.NoError(t, err)
		second, err := s.Save(Upload{Name: "a.png", Data: []byte("2")})
		require.NoError(t, err)

		assert.Equal(t, "a.png_1700000000123.png", first)
		assert.Equal(t, "a.png_1700000000124.png", second)

		data, _, err := s.Load(first)
		require.NoError(t, err)
		assert.Equal(t, []byte("1"), data)
	})

	t.Run("rejects empty uploads", func(t *testing.T) {
		s, _ := newTestStore()

		_, err := s.Save(Upload{Name: "a.png"})
		assert.ErrorIs(t, err, ErrEmptyUpload)
	})
}

func TestLoad(t *testing.T) {
	s, _ := newTestStore()

	data, found, err := s.Load("missing.png_1.png")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)

	_, _, err = s.Load("../secret")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestRemove(t *testing.T) {
	s, _ := newTestStore()

	name, err := s.Save(Upload{Name: "a.png", Data: []byte("1")})
	require.NoError(t, err)

	require.NoError(t, s.Remove(name))

	exists, err := s.Exists(name)
	require.NoError(t, err)
	assert.False(t, exists)

	// removing again is not an error
	assert.NoError(t, s.Remove(name))

	assert.ErrorIs(t, s.Remove("dir/a.png"), ErrInvalidName)
}

func TestOSStore(t *testing.T) {
	s, err := NewOSStore(t.TempDir()+"/covers", clock.NewMock())
	require.NoError(t, err)

	name, err := s.Save(Upload{Name: "b.jpg", Data: []byte("jpeg")})
	require.NoError(t, err)

	exists, err := s.Exists(name)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Remove(name))
}
