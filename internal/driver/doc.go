// Package driver 实现商业教育智能体的演示驱动：初始化、能力演示、集成模拟、状态报告与学习循环。
package driver
