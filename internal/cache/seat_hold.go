package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "bus-booking-backend/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SeatHold 一次暫留：一組座位在付款前的限時保留
type SeatHold struct {
	Token     string    `json:"token"`
	TripID    uuid.UUID `json:"trip_id"`
	SeatCodes []string  `json:"seat_codes"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RedisSeatHoldManager interface {
	// 暫留：原子性保留多個座位 (使用Lua腳本，全有或全無)
	HoldSeats(ctx context.Context, tripID uuid.UUID, seatCodes []string, ttl time.Duration) (*SeatHold, error)
	// 查詢：取得暫留內容，過期或不存在回傳 ErrHoldExpired
	GetHold(ctx context.Context, token string) (*SeatHold, error)
	// 消費：原子性驗證暫留仍完整持有所有座位後整批刪除，
	// 過期或座位已被他人重新暫留時回傳 ErrHoldExpired
	ConsumeHold(ctx context.Context, token string) error
	// 釋放：冪等，暫留已過期或已釋放時不做事
	ReleaseHold(ctx context.Context, token string) (int, error)
	// 查詢：回傳指定座位中目前被暫留的座位編號
	HeldCodes(ctx context.Context, tripID uuid.UUID, seatCodes []string) (map[string]bool, error)
}

type RedisSeatHoldManagerImpl struct {
	client *redis.Client
}

func NewRedisSeatHoldManager(client *redis.Client) RedisSeatHoldManager {
	return &RedisSeatHoldManagerImpl{
		client: client,
	}
}

// 單一座位的暫留 key，值為持有的 hold token
func (m *RedisSeatHoldManagerImpl) seatKey(tripID uuid.UUID, code string) string {
	return fmt.Sprintf("seat_hold:%s:%s", tripID, code)
}

// 暫留本體的 key
func (m *RedisSeatHoldManagerImpl) holdKey(token string) string {
	return fmt.Sprintf("hold:%s", token)
}

/*
暫留多個座位 (使用Lua腳本確保原子性)
KEYS[1] 為暫留 metadata key，KEYS[2..] 為座位 key，與 ARGV[4..] 的座位編號對齊。
 1. 檢查每個座位是否已被暫留，收集所有衝突座位
 2. 任一衝突則整批失敗，回傳衝突座位清單
 3. 全部可用才寫入座位 key 與暫留 metadata，並設定 TTL
*/
const luaHoldSeats = `
local token = ARGV[1]
local trip_id = ARGV[2]
local ttl = tonumber(ARGV[3])

-- 1. 收集衝突座位
local conflicts = {}
for i = 2, #KEYS do
	if redis.call("EXISTS", KEYS[i]) == 1 then
		conflicts[#conflicts + 1] = ARGV[i + 2]
	end
end

if #conflicts > 0 then
	return {0, table.concat(conflicts, ",")}
end

-- 2. 全部可用，整批暫留
for i = 2, #KEYS do
	redis.call("SET", KEYS[i], token, "EX", ttl)
end

-- 3. 寫入暫留 metadata
local codes = {}
for i = 4, #ARGV do
	codes[#codes + 1] = ARGV[i]
end
redis.call("HSET", KEYS[1],
	"trip_id", trip_id,
	"seat_codes", table.concat(codes, ","))
redis.call("EXPIRE", KEYS[1], ttl)

return {1, "OK"}
`

/*
消費暫留 (使用Lua腳本確保原子性)
KEYS[1] 為暫留 metadata key，KEYS[2..] 為座位 key。
只有 metadata 仍存在且每個座位 key 都仍由此 token 持有才整批刪除；
任一座位已過期或被他人重新暫留，整批失敗且不動任何 key。
*/
const luaConsumeHold = `
local token = ARGV[1]

if redis.call("EXISTS", KEYS[1]) == 0 then
	return 0
end

for i = 2, #KEYS do
	if redis.call("GET", KEYS[i]) ~= token then
		return 0
	end
end

for i = 2, #KEYS do
	redis.call("DEL", KEYS[i])
end
redis.call("DEL", KEYS[1])
return 1
`

/*
釋放暫留 (使用Lua腳本確保原子性)
KEYS[1] 為暫留 metadata key，KEYS[2..] 為座位 key。
只刪除仍由此 token 持有的座位 key，避免誤刪過期後被別人重新暫留的座位。
metadata 不存在時視為已過期，不做事。
*/
const luaReleaseHold = `
local token = ARGV[1]

if redis.call("EXISTS", KEYS[1]) == 0 then
	return {0, 0}
end

local released = 0
for i = 2, #KEYS do
	if redis.call("GET", KEYS[i]) == token then
		redis.call("DEL", KEYS[i])
		released = released + 1
	end
end

redis.call("DEL", KEYS[1])
return {1, released}
`

func (m *RedisSeatHoldManagerImpl) HoldSeats(ctx context.Context, tripID uuid.UUID, seatCodes []string, ttl time.Duration) (*SeatHold, error) {
	token := uuid.New().String()

	keys := make([]string, 0, len(seatCodes)+1)
	keys = append(keys, m.holdKey(token))
	args := []interface{}{
		token,
		tripID.String(),
		int(ttl.Seconds()),
	}
	for _, code := range seatCodes {
		keys = append(keys, m.seatKey(tripID, code))
		args = append(args, code)
	}

	result, err := m.client.Eval(ctx, luaHoldSeats, keys, args...).Result()
	if err != nil {
		return nil, fmt.Errorf("hold seats script: %w", err)
	}

	resSlice, ok := result.([]interface{})
	if !ok || len(resSlice) != 2 {
		return nil, fmt.Errorf("unexpected result from hold script: %v", result)
	}

	code, ok := resSlice[0].(int64)
	if !ok {
		return nil, fmt.Errorf("unexpected result from hold script: %v", result)
	}

	if code == 0 {
		conflicts, _ := resSlice[1].(string)
		return nil, apperrors.NewSeatConflictError(strings.Split(conflicts, ","))
	}

	return &SeatHold{
		Token:     token,
		TripID:    tripID,
		SeatCodes: seatCodes,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

func (m *RedisSeatHoldManagerImpl) GetHold(ctx context.Context, token string) (*SeatHold, error) {
	key := m.holdKey(token)
	result, err := m.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	// key 不存在代表暫留已過期，座位 key 也已被 TTL 回收
	if len(result) == 0 {
		return nil, apperrors.ErrHoldExpired
	}

	tripID, err := uuid.Parse(result["trip_id"])
	if err != nil {
		return nil, fmt.Errorf("invalid trip_id in hold: %v", err)
	}

	ttl, err := m.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	return &SeatHold{
		Token:     token,
		TripID:    tripID,
		SeatCodes: strings.Split(result["seat_codes"], ","),
		ExpiresAt: time.Now().UTC().Add(ttl),
	}, nil
}

// ConsumeHold 驗證並消費暫留。先讀 metadata 組出座位 key，再交由 Lua
// 腳本原子性重驗持有權後整批刪除；兩步之間過期也會被腳本擋下。
func (m *RedisSeatHoldManagerImpl) ConsumeHold(ctx context.Context, token string) error {
	hold, err := m.GetHold(ctx, token)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(hold.SeatCodes)+1)
	keys = append(keys, m.holdKey(token))
	for _, code := range hold.SeatCodes {
		keys = append(keys, m.seatKey(hold.TripID, code))
	}

	result, err := m.client.Eval(ctx, luaConsumeHold, keys, token).Result()
	if err != nil {
		return fmt.Errorf("consume hold script: %w", err)
	}

	consumed, ok := result.(int64)
	if !ok {
		return fmt.Errorf("unexpected result from consume script: %v", result)
	}
	if consumed == 0 {
		return apperrors.ErrHoldExpired
	}

	return nil
}

func (m *RedisSeatHoldManagerImpl) ReleaseHold(ctx context.Context, token string) (int, error) {
	key := m.holdKey(token)
	data, err := m.client.HGetAll(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// metadata 已過期或已釋放，座位 key 交給 TTL 回收
	if len(data) == 0 {
		return 0, nil
	}

	tripID, err := uuid.Parse(data["trip_id"])
	if err != nil {
		return 0, fmt.Errorf("invalid trip_id in hold: %v", err)
	}

	keys := []string{key}
	for _, code := range strings.Split(data["seat_codes"], ",") {
		keys = append(keys, m.seatKey(tripID, code))
	}

	result, err := m.client.Eval(ctx, luaReleaseHold, keys, token).Result()
	if err != nil {
		return 0, fmt.Errorf("release hold script: %w", err)
	}

	resSlice, ok := result.([]interface{})
	if !ok || len(resSlice) != 2 {
		return 0, fmt.Errorf("unexpected result from release script: %v", result)
	}

	released, ok := resSlice[1].(int64)
	if !ok {
		return 0, fmt.Errorf("unexpected result from release script: %v", result)
	}

	return int(released), nil
}

func (m *RedisSeatHoldManagerImpl) HeldCodes(ctx context.Context, tripID uuid.UUID, seatCodes []string) (map[string]bool, error) {
	held := make(map[string]bool)
	if len(seatCodes) == 0 {
		return held, nil
	}

	keys := make([]string, 0, len(seatCodes))
	for _, code := range seatCodes {
		keys = append(keys, m.seatKey(tripID, code))
	}

	values, err := m.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		if v != nil {
			held[seatCodes[i]] = true
		}
	}

	return held, nil
}
