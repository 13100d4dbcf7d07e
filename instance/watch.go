package instance

import (
	"context"
	"sync"

	"github.com/ceyewan/genesis-discovery/clog"
	"github.com/ceyewan/genesis-discovery/config"
	"github.com/ceyewan/genesis-discovery/xerrors"
)

// WatchVIP 监听 VIP 地址中引用的配置 key，变化时重新解析并推送新的描述符
//
// 新描述符基于最近一次推送的版本构建，宏从 loader 中解析，并被标记为脏。
// 只有解析结果确实变化时才推送。ctx 取消后返回的 channel 关闭；
// 地址中没有宏时直接返回已关闭的 channel。
func WatchVIP(ctx context.Context, loader config.Loader, d *Descriptor, opts ...Option) (<-chan *Descriptor, error) {
	out := make(chan *Descriptor, 1)
	keys := macroKeys(d.attrs.raw.vipAddressUnresolved, d.attrs.raw.secureVIPAddressUnresolved)
	if len(keys) == 0 {
		close(out)
		return out, nil
	}

	watchCtx, cancel := context.WithCancel(ctx)
	sources := make([]<-chan config.Event, 0, len(keys))
	for _, key := range keys {
		ch, err := loader.Watch(watchCtx, key)
		if err != nil {
			cancel()
			return nil, xerrors.Wrapf(err, "watch vip macro %q", key)
		}
		sources = append(sources, ch)
	}

	events := make(chan config.Event)
	var wg sync.WaitGroup
	for _, ch := range sources {
		wg.Add(1)
		go func(ch <-chan config.Event) {
			defer wg.Done()
			for ev := range ch {
				select {
				case events <- ev:
				case <-watchCtx.Done():
					return
				}
			}
		}(ch)
	}
	go func() {
		wg.Wait()
		close(events)
	}()

	opts = append(opts[:len(opts):len(opts)], WithDeploymentContext(loader))
	go func() {
		defer close(out)
		defer cancel()

		current := d
		for {
			var ev config.Event
			var ok bool
			select {
			case ev, ok = <-events:
				if !ok {
					return
				}
			case <-watchCtx.Done():
				return
			}

			b := NewBuilderFrom(current, opts...)
			b.refreshVIPAddress()
			b.refreshSecureVIPAddress()
			next, err := b.Build()
			if err != nil {
				b.opts.logger.Error("rebuild descriptor after config change failed",
					clog.String("key", ev.Key), clog.Error(err))
				continue
			}
			if next.VIPAddress() == current.VIPAddress() && next.SecureVIPAddress() == current.SecureVIPAddress() {
				continue
			}
			next.MarkDirty()
			b.opts.logger.Info("vip address re-resolved",
				clog.String("key", ev.Key),
				clog.String("vip", next.VIPAddress()),
				clog.String("secure_vip", next.SecureVIPAddress()))

			select {
			case out <- next:
				current = next
			case <-watchCtx.Done():
				return
			}
		}
	}()
	return out, nil
}

// macroKeys 提取宏 key，去重并保持出现顺序
func macroKeys(values ...string) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, v := range values {
		for _, m := range macroPattern.FindAllStringSubmatch(v, -1) {
			if _, ok := seen[m[1]]; ok {
				continue
			}
			seen[m[1]] = struct{}{}
			keys = append(keys, m[1])
		}
	}
	return keys
}
