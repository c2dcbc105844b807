//go:build integration

package integration

import (
	"os"
	"testing"

	queryengine "github.com/wagiedev/query-engine-go"
)

const blogSchema = `datasource db {
  provider = "sqlite"
  url      = "file:dev.db"
}

generator client {
  provider = "prisma-client-js"
}

enum Role {
  USER
  ADMIN
}

model User {
  id    Int    @id @default(autoincrement())
  email String @unique
  role  Role   @default(USER)
  posts Post[]
}

model Post {
  id       Int    @id @default(autoincrement())
  title    String
  author   User   @relation(fields: [authorId], references: [id])
  authorId Int
}
`

// engineOptions points the tests at $QUERY_ENGINE_PATH and skips when unset.
func engineOptions(t *testing.T) []queryengine.Option {
	t.Helper()

	path := os.Getenv("QUERY_ENGINE_PATH")
	if path == "" {
		t.Skip("QUERY_ENGINE_PATH not set")
	}

	if _, err := os.Stat(path); err != nil {
		t.Skipf("query engine not available: %v", err)
	}

	return []queryengine.Option{
		queryengine.WithEnginePath(path),
		queryengine.WithTempDir(t.TempDir()),
	}
}
