package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agora/internal/platform/secret"
	"agora/internal/registration/models"
	"agora/internal/registration/wizard"
	id "agora/pkg/domain"
	"agora/pkg/platform/sentinel"
)

const keyPrefix = "registration:draft:"

// artifactGrace keeps artifact content alive slightly longer than the record
// that references it, since both TTLs are refreshed by separate commands.
const artifactGrace = time.Minute

// record is the sealed value under the draft key. Artifact content is held
// under its own content-addressed key; Blobs[i] is the digest of
// Snapshot.Draft.Artifacts[i].
type record struct {
	Snapshot wizard.Snapshot `json:"snapshot"`
	Blobs    []string        `json:"blobs,omitempty"`
}

// RedisStore keeps sealed snapshots with a TTL. Nothing is written in clear:
// the snapshot JSON (passwords included) and every artifact payload are
// AES-GCM sealed, bound to the key they are stored under.
//
// Artifact payloads are written once per content digest, so field edits only
// rewrite the small snapshot record.
type RedisStore struct {
	client *redis.Client
	sealer *secret.Sealer
	ttl    time.Duration
}

func NewRedis(client *redis.Client, sealer *secret.Sealer, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, sealer: sealer, ttl: ttlOrDefault(ttl)}
}

func key(draftID string) string {
	return keyPrefix + draftID
}

func artifactKey(draftID, digest string) string {
	return keyPrefix + draftID + ":artifact:" + digest
}

func (s *RedisStore) Save(ctx context.Context, snapshot wizard.Snapshot) error {
	payload, err := s.encode(ctx, snapshot)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key(snapshot.ID), payload, s.ttl).Err()
}

// SaveIf stores snapshot only if the stored snapshot is in state expect.
// Concurrent writers are detected with WATCH; the loser gets ErrConflict.
func (s *RedisStore) SaveIf(ctx context.Context, snapshot wizard.Snapshot, expect wizard.State) error {
	payload, err := s.encode(ctx, snapshot)
	if err != nil {
		return err
	}
	k := key(snapshot.ID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := s.decode(snapshot.ID, tx.Get(ctx, k))
		if err != nil {
			return err
		}
		if current.Snapshot.State != expect {
			return fmt.Errorf("draft %s is %s: %w", snapshot.ID, current.Snapshot.State, sentinel.ErrConflict)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, payload, s.ttl)
			return nil
		})
		return err
	}, k)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("draft %s changed concurrently: %w", snapshot.ID, sentinel.ErrConflict)
	}
	return err
}

func (s *RedisStore) Find(ctx context.Context, draftID id.DraftID) (wizard.Snapshot, error) {
	rec, err := s.decode(draftID.String(), s.client.Get(ctx, key(draftID.String())))
	if err != nil {
		return wizard.Snapshot{}, err
	}
	if err := s.loadArtifacts(ctx, &rec); err != nil {
		return wizard.Snapshot{}, err
	}
	return rec.Snapshot, nil
}

func (s *RedisStore) Delete(ctx context.Context, draftID id.DraftID) error {
	k := key(draftID.String())
	keys := []string{k}
	rec, err := s.decode(draftID.String(), s.client.Get(ctx, k))
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return nil
	case err != nil:
		return err
	}
	for _, digest := range rec.Blobs {
		keys = append(keys, artifactKey(draftID.String(), digest))
	}
	return s.client.Del(ctx, keys...).Err()
}

// encode writes any artifact payload not already stored and returns the
// sealed record for the draft key.
func (s *RedisStore) encode(ctx context.Context, snapshot wizard.Snapshot) ([]byte, error) {
	rec := record{Snapshot: snapshot}
	if n := len(snapshot.Draft.Artifacts); n > 0 {
		rec.Snapshot.Draft.Artifacts = make([]models.Artifact, n)
		rec.Blobs = make([]string, n)
		for i, a := range snapshot.Draft.Artifacts {
			digest, err := s.putArtifact(ctx, snapshot.ID, a.Data)
			if err != nil {
				return nil, err
			}
			a.Data = nil
			rec.Snapshot.Draft.Artifacts[i] = a
			rec.Blobs[i] = digest
		}
	}

	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	sealed, err := s.sealer.Seal(raw, []byte(key(snapshot.ID)))
	if err != nil {
		return nil, fmt.Errorf("seal snapshot: %w", err)
	}
	return sealed, nil
}

// putArtifact refreshes the TTL of already stored content and only uploads
// content the store has not seen for this draft.
func (s *RedisStore) putArtifact(ctx context.Context, draftID string, data []byte) (string, error) {
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])
	k := artifactKey(draftID, digest)

	exists, err := s.client.Expire(ctx, k, s.ttl+artifactGrace).Result()
	if err != nil {
		return "", fmt.Errorf("refresh artifact: %w", err)
	}
	if exists {
		return digest, nil
	}
	sealed, err := s.sealer.Seal(data, []byte(k))
	if err != nil {
		return "", fmt.Errorf("seal artifact: %w", err)
	}
	if err := s.client.Set(ctx, k, sealed, s.ttl+artifactGrace).Err(); err != nil {
		return "", fmt.Errorf("store artifact: %w", err)
	}
	return digest, nil
}

func (s *RedisStore) loadArtifacts(ctx context.Context, rec *record) error {
	artifacts := rec.Snapshot.Draft.Artifacts
	if len(rec.Blobs) != len(artifacts) {
		return fmt.Errorf("draft %s: %d artifacts but %d blobs", rec.Snapshot.ID, len(artifacts), len(rec.Blobs))
	}
	if len(artifacts) == 0 {
		return nil
	}
	keys := make([]string, len(rec.Blobs))
	for i, digest := range rec.Blobs {
		keys[i] = artifactKey(rec.Snapshot.ID, digest)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("load artifacts: %w", err)
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			return fmt.Errorf("artifact %s of draft %s expired: %w", artifacts[i].Category, rec.Snapshot.ID, sentinel.ErrNotFound)
		}
		data, err := s.sealer.Open([]byte(raw), []byte(keys[i]))
		if err != nil {
			return fmt.Errorf("open artifact %s: %w", artifacts[i].Category, err)
		}
		artifacts[i].Data = data
	}
	return nil
}

func (s *RedisStore) decode(draftID string, cmd *redis.StringCmd) (record, error) {
	sealed, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return record{}, sentinel.ErrNotFound
	}
	if err != nil {
		return record{}, fmt.Errorf("load snapshot: %w", err)
	}
	raw, err := s.sealer.Open(sealed, []byte(key(draftID)))
	if err != nil {
		return record{}, fmt.Errorf("open snapshot: %w", err)
	}
	var rec record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return record{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return rec, nil
}
