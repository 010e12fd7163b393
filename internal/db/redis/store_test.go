package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	"github.com/kailas-cloud/storefront/internal/db"
	"github.com/kailas-cloud/storefront/internal/domain"
	"github.com/kailas-cloud/storefront/internal/domain/search/filter"
)

// --- client.go tests ---

func TestPing_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG")))

	s := NewStoreForTest(c, "")
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPing_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c, "")
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewStore_RequiresAddrs(t *testing.T) {
	if _, err := NewStore(Config{}); err == nil {
		t.Fatal("expected error for empty addrs")
	}
}

func TestKeys(t *testing.T) {
	s := NewStoreForTest(nil, "sf:")
	if got := s.docKey("lessons", "abc"); got != "sf:lessons:abc" {
		t.Errorf("docKey = %q", got)
	}
	if got := s.pattern("lessons"); got != "sf:lessons:*" {
		t.Errorf("pattern = %q", got)
	}
}

// --- json.go tests ---

func TestScan_SinglePage(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	// SCAN returns [cursor, [elements...]]
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(0), // cursor=0 means done
			mock.RedisArray(mock.RedisString("key1"), mock.RedisString("key2")),
		)))

	s := NewStoreForTest(c, "")
	keys, err := s.Scan(context.Background(), "prefix:*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
}

func TestScan_MultiPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	first := true
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN"
		})).
		DoAndReturn(func(_ context.Context, _ rueidis.Completed) rueidis.RedisResult {
			if first {
				first = false
				return mock.Result(mock.RedisArray(
					mock.RedisInt64(42), // cursor=42 means more
					mock.RedisArray(mock.RedisString("key1")),
				))
			}
			return mock.Result(mock.RedisArray(
				mock.RedisInt64(0),
				mock.RedisArray(mock.RedisString("key2")),
			))
		}).Times(2)

	s := NewStoreForTest(c, "")
	keys, err := s.Scan(context.Background(), "prefix:*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
}

func TestScan_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c, "")
	_, err := s.Scan(context.Background(), "prefix:*")
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestJSONSet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET" && cmd[1] == "mykey" && cmd[2] == "$"
		})).
		Return(mock.Result(mock.RedisString("OK")))

	s := NewStoreForTest(c, "")
	err := s.JSONSet(context.Background(), "mykey", "$", []byte(`{"a":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJSONSet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c, "")
	err := s.JSONSet(context.Background(), "mykey", "$", []byte(`{"a":1}`))
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestJSONGet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.GET" && cmd[1] == "mykey"
		})).
		Return(mock.Result(mock.RedisString(`{"a":1}`)))

	s := NewStoreForTest(c, "")
	data, err := s.JSONGet(context.Background(), "mykey", "$")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("unexpected data: %s", data)
	}
}

func TestJSONGet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.GET"
		})).
		Return(mock.Result(mock.RedisNil()))

	s := NewStoreForTest(c, "")
	_, err := s.JSONGet(context.Background(), "mykey", "$")
	if !errors.Is(err, db.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestJSONGet_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.GET"
		})).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c, "")
	_, err := s.JSONGet(context.Background(), "mykey", "$")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, db.ErrKeyNotFound) {
		t.Error("should not be ErrKeyNotFound for network errors")
	}
}

func TestJSONSetMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil, "") // client not called
	if err := s.jsonSetMulti(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJSONGetMulti_Empty(t *testing.T) {
	s := NewStoreForTest(nil, "")
	results, err := s.jsonGetMulti(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Errorf("expected nil, got %v", results)
	}
}

// --- documents.go tests ---

func expectScan(c *mock.Client, pattern string, keys ...string) {
	elems := make([]rueidis.RedisMessage, len(keys))
	for i, k := range keys {
		elems[i] = mock.RedisString(k)
	}
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "SCAN" && cmd[3] == pattern
		})).
		Return(mock.Result(mock.RedisArray(mock.RedisInt64(0), mock.RedisArray(elems...))))
}

func TestFind_SortsKeysAndFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	expectScan(c, "sf:lessons:*", "sf:lessons:02", "sf:lessons:01", "sf:lessons:03")

	var fetched []string
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, multi ...rueidis.Completed) []rueidis.RedisResult {
			for _, cmd := range multi {
				fetched = append(fetched, cmd.Commands()[1])
			}
			return []rueidis.RedisResult{
				mock.Result(mock.RedisString(`{"_id":"01","id":1,"LessonName":"Chess","Location":"Hendon","Price":100,"Space":5}`)),
				mock.Result(mock.RedisNil()),
				mock.Result(mock.RedisString(`[{"_id":"03","id":3,"LessonName":"Art","Location":"Colindale","Price":80,"Space":5}]`)),
			}
		})

	s := NewStoreForTest(c, "sf:")
	q := filter.NewSubstring("a", []string{"LessonName", "Location"}, nil)
	docs, err := s.Find(context.Background(), "lessons", q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"sf:lessons:01", "sf:lessons:02", "sf:lessons:03"}
	if strings.Join(fetched, ",") != strings.Join(want, ",") {
		t.Errorf("fetched %v, want %v", fetched, want)
	}
	if len(docs) != 1 || docs[0].StoreID() != "03" {
		t.Fatalf("unexpected docs: %v", docs)
	}
	if docs[0]["Price"] != int64(80) {
		t.Errorf("Price = %#v, want int64(80)", docs[0]["Price"])
	}
}

func TestFind_EmptyCollection(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	expectScan(c, "lessons:*")

	s := NewStoreForTest(c, "")
	docs, err := s.Find(context.Background(), "lessons", filter.All())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("expected no docs, got %v", docs)
	}
}

func TestFind_ScanError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(errors.New("connection refused")))

	s := NewStoreForTest(c, "")
	_, err := s.Find(context.Background(), "lessons", filter.All())
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpFind {
		t.Fatalf("expected find db.Error, got %v", err)
	}
}

func TestFind_GetError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	expectScan(c, "lessons:*", "lessons:01")
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{mock.ErrorResult(context.DeadlineExceeded)})

	s := NewStoreForTest(c, "")
	if _, err := s.Find(context.Background(), "lessons", filter.All()); !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func TestInsertOne_AssignsID(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	var stored []string
	c.EXPECT().
		Do(gomock.Any(), mock.MatchFn(func(cmd []string) bool {
			return cmd[0] == "JSON.SET" && strings.HasPrefix(cmd[1], "sf:orders:") && cmd[2] == "$" && cmd[4] == "NX"
		})).
		DoAndReturn(func(_ context.Context, cmd rueidis.Completed) rueidis.RedisResult {
			stored = cmd.Commands()
			return mock.Result(mock.RedisString("OK"))
		})

	s := NewStoreForTest(c, "sf:")
	id, err := s.InsertOne(context.Background(), "orders", domain.Document{
		"_id":  "client-supplied",
		"name": "Ann",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" || id == "client-supplied" {
		t.Fatalf("unexpected id %q", id)
	}
	if stored[1] != "sf:orders:"+id {
		t.Errorf("key = %q", stored[1])
	}

	var body map[string]any
	if err := json.Unmarshal([]byte(stored[3]), &body); err != nil {
		t.Fatalf("stored invalid json: %v", err)
	}
	if body["_id"] != id || body["name"] != "Ann" {
		t.Errorf("unexpected body: %v", body)
	}
}

func TestInsertOne_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		Return(mock.ErrorResult(context.DeadlineExceeded))

	s := NewStoreForTest(c, "")
	_, err := s.InsertOne(context.Background(), "orders", domain.Document{"a": 1})
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpInsertOne {
		t.Fatalf("expected insert db.Error, got %v", err)
	}
}

func TestInsertMany_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString("OK")),
			mock.Result(mock.RedisString("OK")),
		})

	s := NewStoreForTest(c, "")
	n, err := s.InsertMany(context.Background(), "lessons", []domain.Document{
		{"id": int64(1)}, {"id": int64(2)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}
}

func TestInsertMany_Empty(t *testing.T) {
	s := NewStoreForTest(nil, "")
	n, err := s.InsertMany(context.Background(), "lessons", nil)
	if err != nil || n != 0 {
		t.Fatalf("got (%d, %v), want (0, nil)", n, err)
	}
}

func TestInsertMany_PartialError(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString("OK")),
			mock.ErrorResult(errors.New("OOM")),
		})

	s := NewStoreForTest(c, "")
	_, err := s.InsertMany(context.Background(), "lessons", []domain.Document{{"id": 1}, {"id": 2}})
	if !isDBError(err) {
		t.Fatalf("expected db.Error, got %v", err)
	}
}

func expectLessons(c *mock.Client) {
	expectScan(c, "lessons:*", "lessons:01", "lessons:02")
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]rueidis.RedisResult{
			mock.Result(mock.RedisString(`{"_id":"01","id":1,"Space":5}`)),
			mock.Result(mock.RedisString(`{"_id":"02","id":2,"Space":3}`)),
		})
}

func TestUpdateOne_SetsFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	expectLessons(c)

	var set []string
	c.EXPECT().
		DoMulti(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, multi ...rueidis.Completed) []rueidis.RedisResult {
			set = multi[0].Commands()
			return []rueidis.RedisResult{mock.Result(mock.RedisString("OK"))}
		})

	s := NewStoreForTest(c, "")
	res, err := s.UpdateOne(context.Background(), "lessons",
		db.Key{Field: "id", Value: float64(2)},
		domain.Document{"Space": int64(2), "_id": "ignored"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != (db.UpdateResult{Matched: 1, Modified: 1}) {
		t.Errorf("result = %+v", res)
	}
	want := []string{"JSON.SET", "lessons:02", `$["Space"]`, "2"}
	if strings.Join(set, " ") != strings.Join(want, " ") {
		t.Errorf("command = %v, want %v", set, want)
	}
}

func TestUpdateOne_Unchanged(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	expectLessons(c)

	s := NewStoreForTest(c, "")
	res, err := s.UpdateOne(context.Background(), "lessons",
		db.Key{Field: "id", Value: int64(1)},
		domain.Document{"Space": 5},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != (db.UpdateResult{Matched: 1}) {
		t.Errorf("result = %+v", res)
	}
}

func TestUpdateOne_NoMatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	c := mock.NewClient(ctrl)

	expectLessons(c)

	s := NewStoreForTest(c, "")
	res, err := s.UpdateOne(context.Background(), "lessons",
		db.Key{Field: "id", Value: int64(99)},
		domain.Document{"Space": 1},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != (db.UpdateResult{}) {
		t.Errorf("result = %+v", res)
	}
}

func TestUpdateOne_EmptyKeyField(t *testing.T) {
	s := NewStoreForTest(nil, "")
	_, err := s.UpdateOne(context.Background(), "lessons", db.Key{}, domain.Document{"a": 1})
	if !errors.Is(err, db.ErrEmptyKeyField) {
		t.Fatalf("expected ErrEmptyKeyField, got %v", err)
	}
}

func TestFieldPath(t *testing.T) {
	tests := map[string]string{
		"Space":      `$["Space"]`,
		"with.dot":   `$["with.dot"]`,
		`quo"te`:     `$["quo\"te"]`,
		"LessonName": `$["LessonName"]`,
	}
	for in, want := range tests {
		if got := fieldPath(in); got != want {
			t.Errorf("fieldPath(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestDecode(t *testing.T) {
	doc, err := decode([]byte(`[{"a":1.5}]`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["a"] != 1.5 {
		t.Errorf("a = %#v", doc["a"])
	}

	if _, err := decode([]byte(`[]`)); err == nil {
		t.Error("expected error for empty result")
	}
	if _, err := decode([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid json")
	}
}

// --- helpers ---

// isDBError is a test helper for checking wrapped db.Error.
func isDBError(err error) bool {
	var dbErr *db.Error
	return errors.As(err, &dbErr)
}
