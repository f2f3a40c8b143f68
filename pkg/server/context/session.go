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

	"github.com/dnote/bookstore/pkg/server/token"
)

const (
	sessionKey privateKey = "session"
)

type privateKey string

// WithSession creates a new context with the given session
func WithSession(ctx context.Context, session *token.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// Session retrieves a session from the given context. It returns a pointer to
// a session. If the context does not contain a session, it returns nil.
func Session(ctx context.Context) *token.Session {
	if temp := ctx.Value(sessionKey); temp != nil {
		if session, ok := temp.(*token.Session); ok {
			return session
		}
	}

	return nil
}
