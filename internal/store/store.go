package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store 以单个 JSON 数组文件持久化每日条目
// 作为显式对象传给调用方，测试可用临时文件实例隔离
// 文件损坏后写入被阻断，直到 Reload 成功为止
type Store struct {
	mu      sync.Mutex
	path    string
	entries map[string]Entry
	corrupt bool
}

// Open 加载指定路径的存储文件，文件不存在视为空历史
func Open(path string) (*Store, error) {
	s := &Store{path: path, entries: make(map[string]Entry)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload 重新读取底层文件
// 解析失败返回 ErrCorruptStore，内存中已加载的历史保持不变
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.entries = make(map[string]Entry)
		s.corrupt = false
		return nil
	}
	if err != nil {
		return fmt.Errorf("read habit store: %w", err)
	}

	var list []Entry
	if err := json.Unmarshal(raw, &list); err != nil {
		s.corrupt = true
		return fmt.Errorf("%w: %s: %v", ErrCorruptStore, s.path, err)
	}

	entries := make(map[string]Entry, len(list))
	for _, entry := range list {
		date, err := normalizeDate(entry.Date)
		if err != nil {
			s.corrupt = true
			return fmt.Errorf("%w: %s: bad date %q", ErrCorruptStore, s.path, entry.Date)
		}
		entry.Date = date
		// 同日期以文件中靠后的记录为准
		entries[date] = entry
	}

	s.entries = entries
	s.corrupt = false
	return nil
}

// Upsert 写入或替换指定日期的条目，每次调用都落盘
func (s *Store) Upsert(entry Entry) error {
	if _, err := normalizeDate(entry.Date); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.corrupt {
		return fmt.Errorf("%w: refusing to write until the file is repaired", ErrCorruptStore)
	}

	previous, existed := s.entries[entry.Date]
	s.entries[entry.Date] = entry

	if err := s.persistLocked(); err != nil {
		// 落盘失败时回滚内存状态，保持文件与内存一致
		if existed {
			s.entries[entry.Date] = previous
		} else {
			delete(s.entries, entry.Date)
		}
		return err
	}
	return nil
}

// Get 返回指定日期的条目
func (s *Store) Get(date string) (Entry, error) {
	normalized, err := normalizeDate(date)
	if err != nil {
		return Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[normalized]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, normalized)
	}
	return entry, nil
}

// All 返回按日期升序排列的全部条目
func (s *Store) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		list = append(list, entry)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Date < list[j].Date
	})
	return list
}

// Len 返回当前历史条目数
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// persistLocked 用临时文件加原子重命名落盘，避免半成品文件
// 调用方必须已持有 s.mu
func (s *Store) persistLocked() error {
	list := make([]Entry, 0, len(s.entries))
	for _, entry := range s.entries {
		list = append(list, entry)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Date < list[j].Date
	})

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode habit store: %w", err)
	}

	if err := ensureParentDir(s.path); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".daily_logs-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp store file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("store path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
