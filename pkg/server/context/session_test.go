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

package context

import (
	"context"
	"testing"

	"github.com/dnote/bookstore/pkg/assert"
	"github.com/dnote/bookstore/pkg/server/token"
)

func TestSession(t *testing.T) {
	assert.Equal(t, Session(context.Background()) == nil, true, "empty context should carry no session")

	s := &token.Session{Username: "admin", Role: "admin", UserID: 1}
	ctx := WithSession(context.Background(), s)

	assert.Equal(t, Session(ctx), s, "session mismatch")
}
