// Package alerting 将演示流程中的关键失败转换为告警事件并分发到通知渠道。
package alerting
